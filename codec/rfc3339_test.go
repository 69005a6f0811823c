package codec

import (
	"context"
	"testing"
	"time"

	csvskema "github.com/reoring/csvskema"
)

func TestTimeRFC3339_Codec_Basic(t *testing.T) {
	c := TimeRFC3339()
	ctx := context.Background()

	in := "2025-01-01T00:00:00Z"
	got, err := c.Decode(ctx, in)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}

	out, err := c.Encode(ctx, got)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip mismatch: %s != %s", out, in)
	}
}

func TestTimeRFC3339_Encode_ShiftsToUTC(t *testing.T) {
	c := TimeRFC3339()
	plus2 := time.FixedZone("+02", 2*60*60)
	out, err := c.Encode(context.Background(), time.Date(2023, 1, 1, 12, 0, 0, 0, plus2))
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if out != "2023-01-01T10:00:00Z" {
		t.Fatalf("unexpected encoding: %q", out)
	}
}

func TestTimeRFC3339_Decode_Invalid(t *testing.T) {
	c := TimeRFC3339()
	_, err := c.Decode(context.Background(), "2023-01-01 12:00")
	iss, ok := csvskema.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected issues, got %v", err)
	}
	if iss[0].Code != csvskema.CodeInvalidFormat || iss[0].Value != "2023-01-01 12:00" {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}

func TestTimeRFC3339_Decode_Nano(t *testing.T) {
	c := TimeRFC3339()
	got, err := c.Decode(context.Background(), "2025-01-01T00:00:00.120+09:00")
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got.UTC().Hour() != 15 || got.Nanosecond() != 120000000 {
		t.Fatalf("unexpected decode: %v", got)
	}
}

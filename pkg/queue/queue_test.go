package queue

import (
	"encoding/json"
	"testing"
)

type refreshMsg struct {
	Symbol string  `json:"symbol"`
	Months int     `json:"months"`
	Amount float64 `json:"amount"`
}

func TestParsePayloadTypedValue(t *testing.T) {
	in := refreshMsg{Symbol: "AGL", Months: 6, Amount: 1000}

	got, err := ParsePayload[refreshMsg](in)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if *got != in {
		t.Fatalf("got %+v, want %+v", *got, in)
	}

	gotPtr, err := ParsePayload[refreshMsg](&in)
	if err != nil {
		t.Fatalf("ParsePayload pointer: %v", err)
	}
	if gotPtr != &in {
		t.Fatal("pointer payload should pass through unchanged")
	}
}

func TestParsePayloadMap(t *testing.T) {
	payload := map[string]interface{}{
		"symbol": "SOL",
		"months": float64(3),
		"amount": 500.0,
	}

	got, err := ParsePayload[refreshMsg](payload)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if got.Symbol != "SOL" || got.Months != 3 || got.Amount != 500 {
		t.Fatalf("got %+v", *got)
	}
}

func TestParsePayloadRawJSON(t *testing.T) {
	raw := json.RawMessage(`{"symbol":"NPN","months":12,"amount":2500}`)

	got, err := ParsePayload[refreshMsg](raw)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if got.Symbol != "NPN" || got.Months != 12 {
		t.Fatalf("got %+v", *got)
	}
}

func TestParsePayloadInvalidType(t *testing.T) {
	if _, err := ParsePayload[refreshMsg](42); err == nil {
		t.Fatal("expected error for unsupported payload type")
	}
}

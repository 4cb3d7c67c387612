package quotation

import (
	"testing"
	"time"
)

func TestOfferNumber(t *testing.T) {
	ts := time.Date(2026, 3, 7, 15, 4, 0, 0, time.UTC)
	if got := OfferNumber(ts); got != "SAU/2026/03/07" {
		t.Fatalf("OfferNumber = %q, want %q", got, "SAU/2026/03/07")
	}
}

func TestOfferFilename(t *testing.T) {
	ts := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		model string
		ext   string
		want  string
	}{
		{model: "Ankel Mini 1,8m", ext: "xlsx", want: "19.10.2026_oferta_sauny_Ankel_Mini_18m.xlsx"},
		{model: "Toone 2,4 Open", ext: ".pdf", want: "19.10.2026_oferta_sauny_Toone_24_Open.pdf"},
		{model: "A/B", ext: "xlsx", want: "19.10.2026_oferta_sauny_A_B.xlsx"},
		{model: "", ext: "xlsx", want: "19.10.2026_oferta_sauny_bez_modelu.xlsx"},
	}

	for _, tt := range tests {
		if got := OfferFilename(tt.model, ts, tt.ext); got != tt.want {
			t.Errorf("OfferFilename(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

package quotation

import (
	"fmt"
	"strings"
	"time"
)

// OfferNumber is the document number printed on an offer, SAU/YYYY/MM/DD.
func OfferNumber(t time.Time) string {
	return "SAU/" + t.Format("2006/01/02")
}

var filenameReplacer = strings.NewReplacer(" ", "_", ",", "", "/", "_")

// OfferFilename builds the download name of an offer document,
// e.g. "19.10.2026_oferta_sauny_Ankel_Mini_18m.xlsx".
func OfferFilename(model string, t time.Time, ext string) string {
	name := filenameReplacer.Replace(model)
	if name == "" {
		name = "bez_modelu"
	}
	return fmt.Sprintf("%s_oferta_sauny_%s.%s", t.Format("02.01.2006"), name, strings.TrimPrefix(ext, "."))
}

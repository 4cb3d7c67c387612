package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"sauna-offer-bot/internal/quotation"
)

const (
	offerSheet  = "Oferta"
	offersSheet = "Oferty"
)

var offerHeaders = []string{
	"ID", "Numer oferty", "Referencja", "Użytkownik", "Username",
	"Typ", "Model", "Piec", "Malowanie (x)", "Lokalizacja",
	"Dystans (km)", "Cena modelu", "Cena pieca", "Malowanie",
	"Dostawa", "Dopłata za dostawę", "Razem", "Status adresu",
	"Uwagi", "Utworzono",
}

// ExportOfferToExcel writes a single offer sheet into dir and returns the
// file path.
func ExportOfferToExcel(offer Offer, dir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", offerSheet); err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][2]any{
		{"Numer oferty", offer.OfferNumber},
		{"ID", offer.ID},
		{"Referencja", offer.Reference.String()},
		{"Data", offer.CreatedAt.Format("02.01.2006 15:04")},
		{"Klient", fmt.Sprintf("%s (%d)", offer.Username, offer.UserID)},
		{"Typ", offer.Line},
		{"Model", offer.Model},
		{"Piec", offer.Furnace},
		{"Lokalizacja", offer.Location},
		{"Dystans (km)", offer.DistanceKm},
		{"", ""},
		{"Cena modelu", offer.ModelPrice},
		{"Cena pieca", offer.FurnacePrice},
		{fmt.Sprintf("Malowanie (x%d)", offer.PaintMultiplier), offer.PaintCost},
		{"Dostawa", offer.DeliveryCost},
		{"Dopłata za dostawę", offer.CustomDeliveryCost},
		{"Razem", offer.TotalPrice},
		{"Uwagi", offer.Diagnostic},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(offerSheet, fmt.Sprintf("A%d", i+1), &[]any{row[0], row[1]}); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("failed to create style: %w", err)
	}
	_ = f.SetCellStyle(offerSheet, "A1", fmt.Sprintf("A%d", len(rows)), bold)
	_ = f.SetColWidth(offerSheet, "A", "A", 22)
	_ = f.SetColWidth(offerSheet, "B", "B", 60)

	path := filepath.Join(dir, fmt.Sprintf("%d_%s", offer.ID, quotation.OfferFilename(offer.Model, offer.CreatedAt, "xlsx")))
	if err := save(f, path); err != nil {
		return "", err
	}
	return path, nil
}

// ExportAllOffersToExcel dumps the whole archive into one workbook in dir.
func (s *PostgresStorage) ExportAllOffersToExcel(ctx context.Context, dir string) (string, error) {
	const operation = "storage.ExportAllOffersToExcel"

	offers, err := s.ListOffers(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("%s: %w", operation, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("oferty_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := writeOffersWorkbook(offers, path); err != nil {
		return "", fmt.Errorf("%s: %w", operation, err)
	}

	s.logger.Info("Offers exported")
	return path, nil
}

func writeOffersWorkbook(offers []Offer, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", offersSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := make([]any, len(offerHeaders))
	for i, h := range offerHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(offersSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, o := range offers {
		row := []any{
			o.ID,
			o.OfferNumber,
			o.Reference.String(),
			o.UserID,
			o.Username,
			o.Line,
			o.Model,
			o.Furnace,
			o.PaintMultiplier,
			o.Location,
			o.DistanceKm,
			o.ModelPrice,
			o.FurnacePrice,
			o.PaintCost,
			o.DeliveryCost,
			o.CustomDeliveryCost,
			o.TotalPrice,
			o.Resolution,
			o.Diagnostic,
			o.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(offersSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write offer %d: %w", o.ID, err)
		}
	}

	_ = f.AutoFilter(offersSheet, fmt.Sprintf("A1:T%d", len(offers)+1), nil)

	return save(f, path)
}

func save(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// internal/app/features/export/render.go
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/phpdave11/gofpdf"
)

// compress is switched off by tests that look for text in the output.
var compress = true

var legTitles = map[models.Direction]string{
	models.Outbound: "Heenreis",
	models.Return:   "Terugreis",
}

// BuildPDF renders the car lists of both legs of trip, one leg per page.
// Returns the document and a download file name.
func BuildPDF(trip models.Trip, legs map[models.Direction]models.TripLeg) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(trip.Name, true)
	pdf.SetCreator("AutoMaatje", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, dir := range models.Directions {
		leg, ok := legs[dir]
		if !ok {
			leg = trip.LegOrEmpty(dir)
		}
		pdf.AddPage()
		header(pdf, tr, trip, legTitles[dir])
		writeLeg(pdf, tr, leg)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render pdf: %w", err)
	}
	filename := fmt.Sprintf("automaatje_%s_%s.pdf", trip.Date.Format("2006-01-02"), safeFilenamePart(trip.Name))
	return buf.Bytes(), filename, nil
}

func header(pdf *gofpdf.Fpdf, tr func(string) string, trip models.Trip, legTitle string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(trip.Name))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	line := trip.Date.Format("02-01-2006")
	if trip.Destination != "" {
		line += " - " + trip.Destination
	}
	pdf.Cell(0, 6, tr(line))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, legTitle)
	pdf.Ln(10)
}

func writeLeg(pdf *gofpdf.Fpdf, tr func(string) string, leg models.TripLeg) {
	if len(leg.Cars) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 7, "Nog geen auto's.")
		pdf.Ln(9)
	}
	for _, car := range leg.Cars {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s (%d/%d)", car.Driver, len(car.Assigned), car.Capacity)))
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 11)
		if len(car.Assigned) == 0 {
			pdf.Cell(0, 6, "    -")
			pdf.Ln(6)
		}
		for _, c := range car.Assigned {
			pdf.Cell(0, 6, tr("    "+c.Name))
			pdf.Ln(6)
		}
		pdf.Ln(3)
	}

	if len(leg.Children) == 0 {
		return
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Nog niet ingedeeld (%d)", len(leg.Children)))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	names := make([]string, 0, len(leg.Children))
	for _, c := range leg.Children {
		names = append(names, c.Name)
	}
	pdf.MultiCell(0, 6, tr(strings.Join(names, ", ")), "", "", false)
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "uitje"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

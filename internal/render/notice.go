package render

import (
	"strconv"
	"time"

	"invoicer/pkg/models"
)

var vatNotices = map[string]string{
	models.VatReverseCharge:    "Reverse Charge: Die Steuerschuldnerschaft geht auf den Leistungsempfänger über.",
	models.VatKleinunternehmer: "Gemäß § 19 UStG wird keine Umsatzsteuer berechnet.",
}

// VatNotice returns the legal notice for a VAT procedure. ok is false for
// unknown procedures, which get no notice at all.
func VatNotice(procedure string) (notice string, ok bool) {
	notice, ok = vatNotices[procedure]
	return notice, ok
}

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// MonthYear formats a date as "März 2024"
func MonthYear(t time.Time) string {
	return germanMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

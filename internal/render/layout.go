package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"invoicer/pkg/models"
)

// All text uses the default style. A single font keeps the PDF font catalog,
// and with it the output bytes, identical between runs; emphasis is done with size.

var (
	colorRule  = &props.Color{Red: 165, Green: 165, Blue: 165}
	colorTable = &props.Color{Red: 0, Green: 0, Blue: 0}
)

const (
	lineStep     = 5.0  // vertical distance between stacked text lines
	descPerLine  = 30   // characters of an item description per printed line
	tableRowPad  = 4.0  // padding around the text of a table row
	tableRowLine = 4.5  // height of one printed line inside a table row
	emphasisSize = 11.0 // table header and total row
	titleSize    = 14.0
	issuerSize   = 12.0
	senderSize   = 8.6
)

func spacer(height float64) core.Row {
	return row.New(height)
}

// stack places lines of text below each other inside one column
func stack(lines []string, p props.Text) []core.Component {
	out := make([]core.Component, 0, len(lines))
	for i, l := range lines {
		lp := p
		lp.Top = p.Top + float64(i)*lineStep
		out = append(out, text.New(l, lp))
	}
	return out
}

// headerRows prints the issuer block and the underlined sender line
func headerRows(c models.Company) []core.Row {
	contact := stack([]string{
		c.Address,
		fmt.Sprintf("%s %s, %s", c.CP, c.City, c.Country),
		"Tel: " + c.Telephone,
		"Mail: " + c.Mail,
	}, props.Text{Align: align.Right, Top: 6})

	issuer := append([]core.Component{
		text.New(c.Name, props.Text{Size: issuerSize, Align: align.Right}),
	}, contact...)

	sender := fmt.Sprintf("%s - %s - %s %s - %s", c.Name, c.Address, c.CP, c.City, c.Country)

	return []core.Row{
		row.New(27).Add(col.New(12).Add(issuer...)),
		spacer(5),
		row.New(4).Add(col.New(12).Add(text.New(sender, props.Text{Size: senderSize}))),
		line.NewRow(1, props.Line{Thickness: 0.2}),
		spacer(4),
	}
}

// customerRows prints the recipient address
func customerRows(c models.Customer) []core.Row {
	lines := []string{
		c.BusinessName,
		c.Address,
		c.CP + " " + c.City,
		c.Country,
	}
	if c.VatID != "" {
		lines = append(lines, c.VatID)
	}

	return []core.Row{
		row.New(float64(len(lines))*lineStep + 2).Add(col.New(12).Add(stack(lines, props.Text{})...)),
		spacer(5),
	}
}

// metadataRows prints invoice number, invoice date and service month
func metadataRows(inv *Invoice) []core.Row {
	labels := stack([]string{"Rechnungs-Nr.:", "Rechnungsdatum:", "Leistungsdatum:"}, props.Text{Align: align.Right})
	values := stack([]string{inv.Order.InvoiceID, inv.Order.InvoiceDate, inv.ServicePeriod}, props.Text{Align: align.Right})

	return []core.Row{
		row.New(16).Add(
			col.New(6),
			col.New(3).Add(labels...),
			col.New(3).Add(values...),
		),
		spacer(8),
		row.New(8).Add(col.New(12).Add(text.New("Rechnung", props.Text{Size: titleSize}))),
		spacer(3),
	}
}

func tableLine() core.Row {
	return line.NewRow(0.5, props.Line{Color: colorTable, Thickness: 0.25})
}

// tableRow prints one row of the items table. Only the description may wrap.
func tableRow(cells [5]string, p props.Text) core.Row {
	lines := (utf8.RuneCountInString(cells[0]) + descPerLine - 1) / descPerLine
	if lines < 1 {
		lines = 1
	}
	height := tableRowPad + float64(lines)*tableRowLine

	left := p
	left.Top = tableRowPad / 2
	center := left
	center.Align = align.Center

	return row.New(height).Add(
		col.New(4).Add(text.New(cells[0], left)),
		col.New(2).Add(text.New(cells[1], center)),
		col.New(2).Add(text.New(cells[2], center)),
		col.New(2).Add(text.New(cells[3], center)),
		col.New(2).Add(text.New(cells[4], center)),
	)
}

// tableRows prints the items table with header and total row
func tableRows(inv *Invoice) []core.Row {
	header := props.Text{Size: emphasisSize}

	rows := []core.Row{
		tableLine(),
		tableRow([5]string{"Bezeichnung", "Anzahl", "Einheit", "Einzelpreis", "Gesamtpreis"}, header),
		tableLine(),
	}
	for _, l := range inv.Lines {
		rows = append(rows,
			tableRow([5]string{l.Description, l.Amount, l.Unit, l.UnitPrice, l.Total}, props.Text{}),
			tableLine(),
		)
	}

	total := props.Text{Size: emphasisSize, Top: tableRowPad / 2}
	totalValue := total
	totalValue.Align = align.Center

	rows = append(rows,
		row.New(tableRowPad+tableRowLine).Add(
			col.New(10).Add(text.New("Rechnungsbetrag", total)),
			col.New(2).Add(text.New(inv.Order.Total, totalValue)),
		),
		tableLine(),
		spacer(6),
	)
	return rows
}

// closingRows prints the VAT notice, payment terms and greeting
func closingRows(inv *Invoice) []core.Row {
	var rows []core.Row

	if inv.Notice != "" {
		rows = append(rows,
			row.New(6).Add(col.New(12).Add(text.New(inv.Notice))),
			spacer(4),
		)
	}

	rows = append(rows,
		row.New(6).Add(col.New(12).Add(text.New("Bitte überweisen Sie den Rechnungsbetrag innerhalb von 14 Tagen."))),
		spacer(10),
		row.New(5).Add(col.New(12).Add(text.New("Ich danke Ihnen für die gute Zusammenarbeit."))),
		row.New(5).Add(col.New(12).Add(text.New("Mit freundlichen Grüßen"))),
		spacer(8),
		row.New(5).Add(col.New(12).Add(text.New(inv.Company.Name))),
	)
	return rows
}

// footerRows prints bank details and VAT id at the bottom of every page
func footerRows(c models.Company) []core.Row {
	bank := stack([]string{
		"Bankverbindung:",
		"Bank: " + c.Bank,
		"IBAN: " + c.IBAN,
		"BIC: " + c.BIC,
	}, props.Text{Top: 1})

	legal := stack([]string{
		c.Name,
		"USt-IdNr.: " + c.VatID,
	}, props.Text{Top: 1})

	return []core.Row{
		line.NewRow(3, props.Line{Color: colorRule, Thickness: 0.5}),
		row.New(22).Add(
			col.New(7).Add(bank...),
			col.New(5).Add(legal...),
		),
	}
}

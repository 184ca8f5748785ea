package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateInvoicePDF renders an invoice as a PDF using maroto/v2 and
// returns the raw PDF bytes. The invoice template has no tax line: line
// amounts are entered directly and the total is their sum.
func GenerateInvoicePDF(data InvoiceDocData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		Build()

	m := maroto.New(cfg)

	addInvoiceHeader(m, data)
	addInvoiceTable(m, data)
	addInvoiceTotal(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addInvoiceHeader(m core.Maroto, data InvoiceDocData) {
	m.AddRows(
		row.New(14).Add(
			col.New(12).Add(
				text.New("請求書", props.Text{
					Size:  18,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(8).Add(
				text.New(fmt.Sprintf("請求先: %s 御中", data.ClientName), props.Text{
					Size:  11,
					Align: align.Left,
				}),
			),
			col.New(4).Add(
				text.New(data.CompanyName, props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(6).Add(
			col.New(8).Add(
				text.New(fmt.Sprintf("請求書番号: %s", data.InvoiceID), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("発行日: %s", FormatDateJP(data.IssueDate)), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(4),
	)
}

func addInvoiceTable(m core.Maroto, data InvoiceDocData) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("摘要", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("金額", headerText)).WithStyle(&headerCell),
		),
	)

	for _, l := range data.Lines {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(l.Description, props.Text{Size: 9, Align: align.Left})),
				col.New(3).Add(text.New(FormatJPY(l.Amount), props.Text{Size: 9, Align: align.Right})),
			),
		)
	}
}

func addInvoiceTotal(m core.Maroto, data InvoiceDocData) {
	m.AddRows(
		row.New(2).Add(col.New(12).Add(line.New())),
		row.New(10).Add(
			col.New(9).Add(
				text.New("合計", props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
			),
			col.New(3).Add(
				text.New(FormatJPY(data.Total), props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
			),
		),
	)
}

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

// GenerateEstimatePDF renders a client estimate as a PDF using maroto/v2
// and returns the raw PDF bytes. The estimate template carries a tax line:
// subtotal, 10% consumption tax, grand total.
func GenerateEstimatePDF(data EstimateDocData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addEstimateHeader(m, data)
	addEstimateTableHeader(m)
	for _, l := range data.Lines {
		addEstimateRow(m, l)
	}
	addEstimateTotals(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate estimate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addEstimateHeader adds the title, addressee, issuer and dates.
func addEstimateHeader(m core.Maroto, data EstimateDocData) {
	m.AddRows(
		row.New(14).Add(
			col.New(12).Add(
				text.New("御見積書", props.Text{
					Size:  18,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New(fmt.Sprintf("%s 御中", data.ClientName), props.Text{
					Size:  12,
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
	)

	m.AddRows(
		row.New(6).Add(
			col.New(8).Add(
				text.New(fmt.Sprintf("件名: %s", data.ProjectName), props.Text{
					Size:  9,
					Align: align.Left,
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("発行日: %s", FormatDateJP(data.CreateDate)), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	if data.ExpiryDate != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New(fmt.Sprintf("有効期限: %s", FormatDateJP(data.ExpiryDate)), props.Text{
						Size:  9,
						Align: align.Right,
						Color: &props.Color{Red: 80, Green: 80, Blue: 80},
					}),
				),
			),
		)
	}

	// Grand total callout above the table
	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("御見積金額 %s（税込）", FormatJPY(data.GrandTotal)), props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
		row.New(2).Add(col.New(12).Add(line.New())),
		row.New(2),
	)
}

// addEstimateTableHeader adds the column header row for the line item table.
func addEstimateTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(5).Add(text.New("品名", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("数量", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("単位", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("単価", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("金額", headerText)).WithStyle(&headerCell),
		),
	)
}

// addEstimateRow adds one priced line to the table.
func addEstimateRow(m core.Maroto, l PricedLine) {
	cellText := props.Text{Size: 8, Align: align.Left}
	numText := props.Text{Size: 8, Align: align.Right}

	m.AddRows(
		row.New(7).Add(
			col.New(5).Add(text.New(l.Name, cellText)),
			col.New(2).Add(text.New(formatQty(l.Qty), numText)),
			col.New(1).Add(text.New(l.Unit, props.Text{Size: 8, Align: align.Center})),
			col.New(2).Add(text.New(FormatJPY(l.SellUnitPrice), numText)),
			col.New(2).Add(text.New(FormatJPY(l.LineTotal), numText)),
		),
	)
}

// addEstimateTotals adds the subtotal / tax / grand total block.
func addEstimateTotals(m core.Maroto, data EstimateDocData) {
	labelText := props.Text{Size: 9, Align: align.Right}
	valueText := props.Text{Size: 9, Align: align.Right}
	grandText := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(
		row.New(2).Add(col.New(12).Add(line.New())),
		row.New(7).Add(
			col.New(8),
			col.New(2).Add(text.New("小計", labelText)),
			col.New(2).Add(text.New(FormatJPY(data.Subtotal), valueText)),
		),
		row.New(7).Add(
			col.New(8),
			col.New(2).Add(text.New("消費税(10%)", labelText)),
			col.New(2).Add(text.New(FormatJPY(data.Tax), valueText)),
		),
		row.New(9).Add(
			col.New(8),
			col.New(2).Add(text.New("合計", grandText)),
			col.New(2).Add(text.New(FormatJPY(data.GrandTotal), grandText)),
		),
	)
}

// formatQty renders a quantity without trailing zeros.
func formatQty(qty float64) string {
	if qty == float64(int64(qty)) {
		return fmt.Sprintf("%d", int64(qty))
	}
	return fmt.Sprintf("%g", qty)
}

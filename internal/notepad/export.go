package notepad

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

var (
	inkColor       = color.Color{Red: 38, Green: 38, Blue: 34}
	mutedColor     = color.Color{Red: 121, Green: 119, Blue: 109}
	watermarkColor = color.Color{Red: 215, Green: 213, Blue: 205}
)

// ExportPDF renders the notes of a page. The page path is stamped on every
// page of the document.
func ExportPDF(page string, entries []Entry, now time.Time) (out []byte, err error) {
	// maroto reports some layout failures by panicking.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render notes pdf: %v", r)
		}
	}()

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 15, 20)

	path := "/" + page
	m.RegisterHeader(func() {
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(path, props.Text{
					Size:  20,
					Style: consts.Bold,
					Align: consts.Center,
					Color: watermarkColor,
				})
			})
		})
	})

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text("NOTEPAD", props.Text{
				Size:  20,
				Style: consts.Bold,
				Color: inkColor,
			})
		})
	})
	m.Row(6, func() {
		m.Col(6, func() {
			m.Text("Page: "+path, props.Text{Size: 9, Color: mutedColor})
		})
		m.Col(6, func() {
			m.Text("Exported "+now.Format("Jan 02, 2006 15:04"), props.Text{
				Size:  9,
				Color: mutedColor,
				Align: consts.Right,
			})
		})
	})
	m.Row(6, func() {})

	m.Row(7, func() {
		m.Col(1, func() {
			m.Text("#", props.Text{Size: 8, Style: consts.Bold, Color: inkColor})
		})
		m.Col(7, func() {
			m.Text("Note", props.Text{Size: 8, Style: consts.Bold, Color: inkColor})
		})
		m.Col(2, func() {
			m.Text("Added", props.Text{Size: 8, Style: consts.Bold, Color: inkColor})
		})
		m.Col(2, func() {
			m.Text("Amount", props.Text{Size: 8, Style: consts.Bold, Color: inkColor, Align: consts.Right})
		})
	})

	if len(entries) == 0 {
		m.Row(7, func() {
			m.Col(12, func() {
				m.Text("No notes yet.", props.Text{Size: 9, Color: mutedColor})
			})
		})
	}
	for i, e := range entries {
		amount := "-"
		if e.Amount.Valid {
			amount = e.Amount.Decimal.StringFixed(2)
		}
		m.Row(7, func() {
			m.Col(1, func() {
				m.Text(fmt.Sprintf("%d", i+1), props.Text{Size: 9, Color: mutedColor})
			})
			m.Col(7, func() {
				m.Text(e.Text, props.Text{Size: 9, Color: inkColor})
			})
			m.Col(2, func() {
				m.Text(e.CreatedAt.Format("Jan 02, 2006"), props.Text{Size: 9, Color: mutedColor})
			})
			m.Col(2, func() {
				m.Text(amount, props.Text{Size: 9, Color: inkColor, Align: consts.Right})
			})
		})
	}

	m.Row(6, func() {})
	m.Row(7, func() {
		m.Col(8, func() {})
		m.Col(2, func() {
			m.Text("Total", props.Text{Size: 10, Style: consts.Bold, Color: inkColor, Align: consts.Right})
		})
		m.Col(2, func() {
			m.Text(Total(entries).StringFixed(2), props.Text{Size: 10, Style: consts.Bold, Color: inkColor, Align: consts.Right})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render notes pdf: %w", err)
	}
	return buf.Bytes(), nil
}

package admin

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"ID", "Name", "Description", "Price", "PreviousPrice", "Stock",
	"CategoryID", "Image", "Brand", "UpdatedAt",
}

func (s *service) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(productsSheet)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price)
		if p.PreviousPrice != nil {
			row.AddCell().SetValue(*p.PreviousPrice)
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.CategoryID)
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetValue(p.Brand)
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.log.WithField("products", len(products)).Info("Admin: products exported")
	return nil
}

// ImportProducts reads the first sheet. Row 1 is a header; the columns are
// name, description, price, stock and image.
func (s *service) ImportProducts(ctx context.Context, r io.ReaderAt, size int64) (*ImportReport, error) {
	book, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable workbook: %v", ErrInvalidProduct, err)
	}
	if len(book.Sheets) == 0 || book.Sheets[0].MaxRow < 2 {
		return nil, fmt.Errorf("%w: workbook is empty or missing header row", ErrInvalidProduct)
	}

	sheet := book.Sheets[0]
	report := &ImportReport{}
	for i := 1; i < sheet.MaxRow && i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if row == nil {
			report.Skipped++
			continue
		}
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		name := get(0)
		price, errPrice := strconv.ParseFloat(get(2), 64)
		stock, errStock := strconv.ParseFloat(get(3), 64)
		if name == "" || errPrice != nil || errStock != nil || price < 0 || stock < 0 {
			report.Skipped++
			continue
		}

		_, err := s.CreateProduct(ctx, &ProductRequest{
			Name:        name,
			Description: get(1),
			Price:       price,
			Stock:       int(stock),
			Image:       get(4),
		})
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		report.Created++
	}

	s.log.WithFields(logrus.Fields{"created": report.Created, "skipped": report.Skipped}).Info("Admin: products imported")
	return report, nil
}

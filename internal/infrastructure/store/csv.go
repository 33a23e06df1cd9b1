package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/receiptlens/backend/internal/domain"
)

var productHeader = []string{"barcode", "product_name", "quantity", "calories", "protein", "fat", "carbohydrates", "fiber", "sugars"}

var itemHeader = []string{"simple_name", "price", "translated_name", "original_name"}

// macroColumns lists the macro names in product column order
var macroColumns = []string{"calories", "protein", "fat", "carbohydrates", "fiber", "sugars"}

// CSVStore is the accumulation store shared between runs: decoded
// products append to one file across calls, parsed receipt items
// replace another. Plain CSV so the files can be inspected by hand.
// Access is mutex-guarded since HTTP handlers run concurrently.
type CSVStore struct {
	mu           sync.Mutex
	productsPath string
	itemsPath    string
}

// NewCSVStore creates a store writing to the given file paths
func NewCSVStore(productsPath, itemsPath string) *CSVStore {
	return &CSVStore{
		productsPath: productsPath,
		itemsPath:    itemsPath,
	}
}

// AppendProducts appends decoded products to the accumulation file,
// writing the header first when the file does not exist yet
func (s *CSVStore) AppendProducts(products []domain.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeHeader := false
	if _, err := os.Stat(s.productsPath); errors.Is(err, os.ErrNotExist) {
		writeHeader = true
	}

	if err := os.MkdirAll(filepath.Dir(s.productsPath), 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	f, err := os.OpenFile(s.productsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		_ = w.Write(productHeader)
	}
	for _, p := range products {
		row := []string{p.Barcode, p.ProductName, formatOptionalFloat(p.Quantity)}
		for _, macro := range macroColumns {
			if value, ok := p.Macros[macro]; ok {
				row = append(row, formatFloat(value))
			} else {
				row = append(row, "")
			}
		}
		_ = w.Write(row)
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// LoadProducts reads all accumulated products
func (s *CSVStore) LoadProducts() ([]domain.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll(s.productsPath)
	if err != nil {
		return nil, err
	}

	products := make([]domain.ProductRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(productHeader) || row[0] == productHeader[0] {
			continue
		}

		product := domain.ProductRecord{
			Barcode:     row[0],
			ProductName: row[1],
			Macros:      make(map[string]float64, len(macroColumns)),
		}
		if quantity, err := strconv.ParseFloat(row[2], 64); err == nil {
			product.Quantity = &quantity
		}
		for i, macro := range macroColumns {
			if value, err := strconv.ParseFloat(row[3+i], 64); err == nil {
				product.Macros[macro] = value
			}
		}

		products = append(products, product)
	}

	return products, nil
}

// ReplaceItems overwrites the parsed receipt items file with the items
// of the latest parse
func (s *CSVStore) ReplaceItems(items []domain.ReceiptItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.itemsPath), 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	f, err := os.Create(s.itemsPath)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write(itemHeader)
	for _, item := range items {
		_ = w.Write([]string{item.SimpleName, item.Price.String(), item.TranslatedName, item.OriginalName})
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// LoadItems reads the items of the latest parse
func (s *CSVStore) LoadItems() ([]domain.ReceiptItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll(s.itemsPath)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ReceiptItem, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(itemHeader) || row[0] == itemHeader[0] {
			continue
		}

		price, err := decimal.NewFromString(row[1])
		if err != nil {
			log.Printf("[STORE] skipping item %q with bad stored price %q", row[3], row[1])
			continue
		}

		items = append(items, domain.ReceiptItem{
			SimpleName:     row[0],
			Price:          price,
			TranslatedName: row[2],
			OriginalName:   row[3],
		})
	}

	return items, nil
}

// Reset discards the accumulated products, as done on server startup
func (s *CSVStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.productsPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// readAll reads every CSV row from path; a missing file is an empty store
func (s *CSVStore) readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return formatFloat(*value)
}

package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

// CSVProvider implements BarProvider over local CSV files laid out as
// <root>/<symbol_type>/<symbol>.csv.
type CSVProvider struct {
	root   string
	format CSVColumnMapping
}

// NewCSVProvider creates a CSV bar provider rooted at the given data
// directory, using the default column layout.
func NewCSVProvider(root string) *CSVProvider {
	return &CSVProvider{
		root:   root,
		format: DefaultCSVFormat,
	}
}

// NewCSVProviderWithFormat creates a CSV bar provider with a custom layout.
func NewCSVProviderWithFormat(root string, format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{
		root:   root,
		format: format,
	}
}

// GetName returns the name of the provider.
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// FilePath returns the expected data file location for a symbol.
func (p *CSVProvider) FilePath(symbol string, symbolType types.SymbolType) string {
	return filepath.Join(p.root, string(symbolType), symbol+".csv")
}

// GetBars loads the symbol's series and restricts it to [start, end].
func (p *CSVProvider) GetBars(symbol string, symbolType types.SymbolType, start, end time.Time) ([]types.Bar, error) {
	bars, err := p.loadFile(p.FilePath(symbol, symbolType))
	if err != nil {
		return nil, err
	}
	return FilterByDateRange(bars, start, end), nil
}

func (p *CSVProvider) loadFile(filename string) ([]types.Bar, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing file means no data for the symbol; the driver turns
			// an empty series into a DataUnavailable failure.
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var bars []types.Bar
	format := p.format

	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		if len(record) < format.MinColumns {
			log.Printf("⚠️ Insufficient columns at line %d (expected %d, got %d), skipping", lineNum, format.MinColumns, len(record))
			continue
		}

		date, err := time.Parse(format.DateFormat, record[format.DateCol])
		if err != nil {
			log.Printf("⚠️ Invalid date '%s' at line %d, skipping: %v", record[format.DateCol], lineNum, err)
			continue
		}

		open, err := strconv.ParseFloat(record[format.OpenCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid open price '%s' at line %d, skipping: %v", record[format.OpenCol], lineNum, err)
			continue
		}

		high, err := strconv.ParseFloat(record[format.HighCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid high price '%s' at line %d, skipping: %v", record[format.HighCol], lineNum, err)
			continue
		}

		low, err := strconv.ParseFloat(record[format.LowCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid low price '%s' at line %d, skipping: %v", record[format.LowCol], lineNum, err)
			continue
		}

		closePrice, err := strconv.ParseFloat(record[format.CloseCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid close price '%s' at line %d, skipping: %v", record[format.CloseCol], lineNum, err)
			continue
		}

		volume, err := strconv.ParseFloat(record[format.VolumeCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid volume '%s' at line %d, skipping: %v", record[format.VolumeCol], lineNum, err)
			continue
		}

		amount := 0.0
		if format.AmountCol < len(record) {
			if v, err := strconv.ParseFloat(record[format.AmountCol], 64); err == nil {
				amount = v
			}
		}

		if open <= 0 || high <= 0 || low <= 0 || closePrice <= 0 {
			log.Printf("⚠️ Invalid price data (negative or zero) at line %d, skipping", lineNum)
			continue
		}

		if high < open || high < closePrice || high < low {
			log.Printf("⚠️ High price is lower than other prices at line %d, skipping", lineNum)
			continue
		}

		if low > open || low > closePrice {
			log.Printf("⚠️ Low price is higher than other prices at line %d, skipping", lineNum)
			continue
		}

		bars = append(bars, types.Bar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
			Amount: amount,
		})
	}

	return bars, nil
}

// ValidateBars validates the integrity of a loaded series.
func (p *CSVProvider) ValidateBars(bars []types.Bar) error {
	if len(bars) == 0 {
		return fmt.Errorf("no bars provided")
	}

	for i, bar := range bars {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return fmt.Errorf("invalid price data at index %d: prices must be positive", i)
		}

		if bar.High < bar.Low {
			return fmt.Errorf("invalid price data at index %d: high (%.4f) cannot be less than low (%.4f)",
				i, bar.High, bar.Low)
		}

		if i > 0 && !bar.Date.After(bars[i-1].Date) {
			return fmt.Errorf("invalid date sequence at index %d: dates must be strictly increasing", i)
		}
	}

	return nil
}

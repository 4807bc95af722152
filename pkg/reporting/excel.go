package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dcat-quant/dcat-backtest/internal/backtest"
	"github.com/dcat-quant/dcat-backtest/internal/ledger"
)

// WriteTradesXLSX writes a workbook with a summary sheet and one trade sheet
// per book.
func WriteTradesXLSX(result *backtest.Result, path string) error {
	fx := excelize.NewFile()
	defer fx.Close()

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := writeSummarySheet(fx, result, headerStyle); err != nil {
		return err
	}
	if err := writeTradeSheet(fx, "Plan Trades", result.DCATrades, headerStyle); err != nil {
		return err
	}
	if err := writeTradeSheet(fx, "Tactical Trades", result.TacticalTrades, headerStyle); err != nil {
		return err
	}

	fx.DeleteSheet("Sheet1")
	return fx.SaveAs(path)
}

func writeSummarySheet(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	const sheet = "Summary"
	if _, err := fx.NewSheet(sheet); err != nil {
		return err
	}

	s := result.Summary
	rows := [][]interface{}{
		{"Symbol", result.Symbol},
		{"Strategy", result.Variant},
		{"Period", fmt.Sprintf("%s ~ %s", s.DataStartDate, s.DataEndDate)},
		{"Total Return", s.TotalReturn},
		{"Annualized Return", s.AnnualizedRet},
		{"Max Drawdown", s.MaxDrawdown},
		{"Sharpe Ratio", s.SharpeRatio},
		{"Final Value", s.FinalValue},
		{"Plan Buys", s.DCABuyCount},
		{"Plan Sells", s.DCASellCount},
		{"Tactical Buys", s.TBuyCount},
		{"Tactical Sells", s.TSellCount},
		{"Tactical Profit", s.TProfit},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := fx.SetCellStyle(sheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return err
	}
	return fx.SetColWidth(sheet, "A", "B", 22)
}

func writeTradeSheet(fx *excelize.File, sheet string, trades []ledger.Trade, headerStyle int) error {
	if _, err := fx.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Date", "Type", "Shares", "Price", "Amount", "Profit", "Cash After"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "G1", headerStyle); err != nil {
		return err
	}

	for i, trade := range trades {
		row := []interface{}{
			trade.Date.Format("2006-01-02"),
			string(trade.Side),
			trade.Shares,
			trade.Price,
			trade.Amount,
			trade.Profit,
			trade.CashAfter,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SetColWidth(sheet, "A", "G", 14)
}

package store

import (
	"fmt"
	"time"

	"github.com/hyeon/stockpilot/internal/external/dart"
)

var financialsHeader = []string{"sj_div", "account_id", "account_nm", "thstrm_amount", "frmtrm_amount", "currency"}

// SaveFinancials writes a dated financials CSV for a stock
func (s *FileStore) SaveFinancials(stockCode string, accounts []dart.FinancialAccount, asOf time.Time) (string, error) {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{
			a.SjDiv,
			a.AccountID,
			a.AccountNm,
			a.ThstrmAmount,
			a.FrmtrmAmount,
			a.Currency,
		})
	}

	filename := fmt.Sprintf("financials_%s_%s.csv", stockCode, asOf.Format("20060102"))
	return s.writeCSV(filename, financialsHeader, rows)
}

// LoadLatestFinancials loads the most recently collected financials CSV
func (s *FileStore) LoadLatestFinancials(stockCode string) ([]dart.FinancialAccount, error) {
	path, err := s.latestFile(fmt.Sprintf("financials_%s_*.csv", stockCode))
	if err != nil {
		return nil, err
	}

	rows, err := s.readCSV(path)
	if err != nil {
		return nil, err
	}

	accounts := make([]dart.FinancialAccount, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		accounts = append(accounts, dart.FinancialAccount{
			SjDiv:        row[0],
			AccountID:    row[1],
			AccountNm:    row[2],
			ThstrmAmount: row[3],
			FrmtrmAmount: row[4],
			Currency:     row[5],
		})
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("financials file %s holds no rows: %w", path, ErrNotFound)
	}
	return accounts, nil
}

var filingsHeader = []string{"rcept_dt", "rcept_no", "corp_cls", "report_nm", "flr_nm"}

// SaveFilings writes a dated filings CSV for a stock
func (s *FileStore) SaveFilings(stockCode string, filings []dart.Filing, asOf time.Time) (string, error) {
	rows := make([][]string, 0, len(filings))
	for _, f := range filings {
		rows = append(rows, []string{
			f.RceptDt,
			f.RceptNo,
			f.CorpCls,
			f.ReportNm,
			f.FlrNm,
		})
	}

	filename := fmt.Sprintf("filings_%s_%s.csv", stockCode, asOf.Format("20060102"))
	return s.writeCSV(filename, filingsHeader, rows)
}

// LoadLatestFilings loads the most recently collected filings CSV
func (s *FileStore) LoadLatestFilings(stockCode string) ([]dart.Filing, error) {
	path, err := s.latestFile(fmt.Sprintf("filings_%s_*.csv", stockCode))
	if err != nil {
		return nil, err
	}

	rows, err := s.readCSV(path)
	if err != nil {
		return nil, err
	}

	filings := make([]dart.Filing, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		filings = append(filings, dart.Filing{
			StockCode: stockCode,
			RceptDt:   row[0],
			RceptNo:   row[1],
			CorpCls:   row[2],
			ReportNm:  row[3],
			FlrNm:     row[4],
		})
	}

	return filings, nil
}

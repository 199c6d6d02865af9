package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsMajorFiling(t *testing.T) {
	tests := []struct {
		name       string
		reportName string
		want       bool
	}{
		{"사업보고서", "사업보고서 (2024.01)", true},
		{"분기보고서", "분기보고서 (2024.3Q)", true},
		{"반기보고서", "반기보고서 (2024)", true},
		{"주요사항보고서", "주요사항보고서(유상증자결정)", true},
		{"유상증자", "유상증자결정", true},
		{"합병", "합병계약체결결정", true},
		{"자기주식", "자기주식취득신탁계약체결", true},
		{"일반공시", "감사보고서제출", false},
		{"기타공시", "임원ㆍ주요주주특정증권등소유상황보고서", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMajorFiling(tt.reportName); got != tt.want {
				t.Errorf("IsMajorFiling(%q) = %v, want %v", tt.reportName, got, tt.want)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	tests := []struct {
		corpCls string
		want    FilingCategory
	}{
		{"Y", CategoryKOSPI},
		{"K", CategoryKOSDAQ},
		{"N", CategoryKONEX},
		{"E", CategoryETC},
		{"", CategoryETC},
		{"unknown", CategoryETC},
	}

	for _, tt := range tests {
		t.Run(tt.corpCls, func(t *testing.T) {
			if got := GetCategory(tt.corpCls); got != tt.want {
				t.Errorf("GetCategory(%q) = %v, want %v", tt.corpCls, got, tt.want)
			}
		})
	}
}

func TestFilingURL(t *testing.T) {
	got := FilingURL("20240115000123")
	want := "https://dart.fss.or.kr/dsaf001/main.do?rcpNo=20240115000123"
	if got != want {
		t.Errorf("FilingURL() = %v, want %v", got, want)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"connection reset", fmt.Errorf("connection reset by peer"), true},
		{"EOF uppercase", fmt.Errorf("unexpected EOF"), true},
		{"timeout", fmt.Errorf("context deadline exceeded: i/o timeout"), true},
		{"connection refused", fmt.Errorf("dial tcp: connection refused"), true},
		{"auth error", fmt.Errorf("API error: 020 - invalid API key"), false},
		{"not found", fmt.Errorf("404 not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestFetchFilings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("corp_code") != "00126380" {
			t.Errorf("corp_code = %q, want 00126380", q.Get("corp_code"))
		}
		if q.Get("bgn_de") != "20250101" || q.Get("end_de") != "20250131" {
			t.Errorf("date range = %s..%s", q.Get("bgn_de"), q.Get("end_de"))
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "000",
			"list": []map[string]string{
				{
					"corp_code": "00126380",
					"corp_name": "삼성전자",
					"corp_cls":  "Y",
					"report_nm": "사업보고서 (2024.12)",
					"rcept_no":  "20250131000001",
					"rcept_dt":  "20250131",
				},
			},
		})
	}))
	defer server.Close()

	client := newTestDartClient(t, server.URL)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	filings, err := client.FetchFilings(context.Background(), "00126380", from, to)
	if err != nil {
		t.Fatalf("FetchFilings() error = %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("got %d filings, want 1", len(filings))
	}
	if !IsMajorFiling(filings[0].ReportNm) {
		t.Errorf("expected %q to be a major filing", filings[0].ReportNm)
	}
}

func TestFetchFilingsNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "013", "message": "no data"})
	}))
	defer server.Close()

	client := newTestDartClient(t, server.URL)

	filings, err := client.FetchFilings(context.Background(), "00126380", time.Now().AddDate(0, -1, 0), time.Now())
	if err != nil {
		t.Fatalf("FetchFilings() error = %v", err)
	}
	if len(filings) != 0 {
		t.Errorf("got %d filings, want 0", len(filings))
	}
}

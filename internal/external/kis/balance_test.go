package kis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balanceServer(t *testing.T, pages []map[string]interface{}) *httptest.Server {
	t.Helper()

	var call int
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			writeToken(w)
			return
		}

		require.Less(t, call, len(pages), "unexpected extra balance page request")
		page := pages[call]
		call++

		if trCont, ok := page["_tr_cont"].(string); ok {
			w.Header().Set("tr_cont", trCont)
		}
		json.NewEncoder(w).Encode(page)
	}))
}

func TestGetBalance(t *testing.T) {
	server := balanceServer(t, []map[string]interface{}{
		{
			"rt_cd":   "0",
			"output1": []map[string]string{},
			"output2": []map[string]string{{
				"dnca_tot_amt":       "1000000",
				"prvs_rcdl_excc_amt": "900000",
				"pchs_amt_smtl_amt":  "5000000",
				"evlu_amt_smtl_amt":  "5500000",
				"evlu_pfls_smtl_amt": "500000",
				"tot_evlu_amt":       "6500000",
			}},
		},
	})
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	balance, err := client.GetBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), balance.TotalDeposit)
	assert.Equal(t, int64(900000), balance.AvailableCash)
	assert.Equal(t, int64(500000), balance.TotalProfitLoss)
	assert.InDelta(t, 10.0, balance.ProfitLossRate, 0.001)
	assert.Equal(t, int64(6500000), balance.TotalAsset)
}

func TestGetHoldingsFollowsContinuationPages(t *testing.T) {
	server := balanceServer(t, []map[string]interface{}{
		{
			"_tr_cont": "F",
			"rt_cd":    "0",
			"output1": []map[string]string{{
				"pdno":          "005930",
				"prdt_name":     "삼성전자",
				"hldg_qty":      "10",
				"pchs_avg_prc":  "70000.00",
				"prpr":          "75000",
				"evlu_amt":      "750000",
				"evlu_pfls_amt": "50000",
				"evlu_pfls_rt":  "7.14",
			}},
			"output2":        []map[string]string{},
			"ctx_area_fk100": "fk-1",
			"ctx_area_nk100": "nk-1",
		},
		{
			"_tr_cont": "D",
			"rt_cd":    "0",
			"output1": []map[string]string{{
				"pdno":          "035720",
				"prdt_name":     "카카오",
				"hldg_qty":      "5",
				"pchs_avg_prc":  "50000.00",
				"prpr":          "45000",
				"evlu_amt":      "225000",
				"evlu_pfls_amt": "-25000",
				"evlu_pfls_rt":  "-10.00",
			}},
			"output2": []map[string]string{},
		},
	})
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	holdings, err := client.GetHoldings(context.Background())
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "005930", holdings[0].StockCode)
	assert.Equal(t, "035720", holdings[1].StockCode)
	assert.Equal(t, int64(-25000), holdings[1].ProfitLoss)
}

func TestGetHoldingsSkipsWarrantsAndZeroQuantity(t *testing.T) {
	server := balanceServer(t, []map[string]interface{}{
		{
			"rt_cd": "0",
			"output1": []map[string]string{
				{"pdno": "005930", "prdt_name": "삼성전자", "hldg_qty": "10"},
				{"pdno": "J0593010", "prdt_name": "삼성전자 신주인수권", "hldg_qty": "3"},
				{"pdno": "000660", "prdt_name": "SK하이닉스", "hldg_qty": "0"},
			},
			"output2": []map[string]string{},
		},
	})
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	holdings, err := client.GetHoldings(context.Background())
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "005930", holdings[0].StockCode)
}

func TestGetHoldingQuantity(t *testing.T) {
	server := balanceServer(t, []map[string]interface{}{
		{
			"rt_cd": "0",
			"output1": []map[string]string{
				{"pdno": "005930", "hldg_qty": "10"},
			},
			"output2": []map[string]string{},
		},
		{
			"rt_cd": "0",
			"output1": []map[string]string{
				{"pdno": "005930", "hldg_qty": "10"},
			},
			"output2": []map[string]string{},
		},
	})
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	qty, err := client.GetHoldingQuantity(context.Background(), "005930")
	require.NoError(t, err)
	assert.Equal(t, int64(10), qty)

	qty, err = client.GetHoldingQuantity(context.Background(), "000660")
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
}

func TestIsStockWarrant(t *testing.T) {
	assert.True(t, isStockWarrant("J0593010"))
	assert.False(t, isStockWarrant("005930"))
}

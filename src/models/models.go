package models

import "strconv"

// Company identifies a filer as registered with DART.
type Company struct {
	CorpCode  string `json:"corp_code"`  // DART corporation code (8 digits)
	CorpName  string `json:"corp_name"`  // Registered company name
	StockCode string `json:"stock_code"` // Listed stock code, empty for unlisted filers
}

// RawStatement is a single financial-statement line item exactly as the
// DART API returns it. Amounts are locale-formatted strings ("1,234,567")
// and may be empty.
type RawStatement struct {
	RceptNo         string `json:"rcept_no"`   // Filing receipt number
	ReprtCode       string `json:"reprt_code"` // Report code, "11011" = annual business report
	BsnsYear        string `json:"bsns_year"`  // Fiscal year, 4 digits
	SjDiv           string `json:"sj_div"`     // Statement division: BS, IS or CF
	SjNm            string `json:"sj_nm"`      // Statement name, e.g. "재무상태표"
	AccountNm       string `json:"account_nm"` // Account name, e.g. "자산총계"
	ThstrmNm        string `json:"thstrm_nm"`  // Label of the current term
	ThstrmAmount    string `json:"thstrm_amount"`
	FrmtrmNm        string `json:"frmtrm_nm"` // Label of the prior term
	FrmtrmAmount    string `json:"frmtrm_amount"`
	BfefrmtrmNm     string `json:"bfefrmtrm_nm"` // Label of the term before the prior term
	BfefrmtrmAmount string `json:"bfefrmtrm_amount"`
	Ord             string `json:"ord"` // Display order; lower = higher priority
	Currency        string `json:"currency"`
}

// OrdValue parses the DART ord string. Unparseable values rank as 0 so a
// malformed entry never loses to a well-formed duplicate.
func (r RawStatement) OrdValue() int {
	value, err := strconv.Atoi(r.Ord)
	if err != nil {
		return 0
	}
	return value
}

// StoredStatement is a line item as persisted, i.e. a RawStatement joined
// with its company identity and with amounts normalized to numbers.
// Uniqueness in the store is (corp_code, bsns_year, sj_div, account_nm).
type StoredStatement struct {
	CorpCode        string  `json:"corp_code"`
	CorpName        string  `json:"corp_name"`
	StockCode       string  `json:"stock_code"`
	RceptNo         string  `json:"rcept_no"`
	ReprtCode       string  `json:"reprt_code"`
	BsnsYear        string  `json:"bsns_year"`
	SjDiv           string  `json:"sj_div"`
	SjNm            string  `json:"sj_nm"`
	AccountNm       string  `json:"account_nm"`
	ThstrmNm        string  `json:"thstrm_nm"`
	ThstrmAmount    float64 `json:"thstrm_amount"`
	FrmtrmNm        string  `json:"frmtrm_nm"`
	FrmtrmAmount    float64 `json:"frmtrm_amount"`
	BfefrmtrmNm     string  `json:"bfefrmtrm_nm"`
	BfefrmtrmAmount float64 `json:"bfefrmtrm_amount"`
	Ord             int     `json:"ord"`
	Currency        string  `json:"currency"`
}

// AccountAmounts holds the three reported amounts of one account for one
// fiscal year: current term, prior term, and the term before that.
type AccountAmounts struct {
	Current    float64 `json:"thstrm"`
	Prior      float64 `json:"frmtrm"`
	PriorPrior float64 `json:"bfefrmtrm"`
}

// YearBucket groups stored line items by fiscal year and account name.
// It is derived on every metrics request and never persisted.
type YearBucket map[string]map[string]AccountAmounts

// ExtractedValues are the eight line items the ratio pipeline needs,
// pulled out of one fiscal year's bucket slice. Absent accounts are zero.
type ExtractedValues struct {
	TotalAssets        float64
	TotalLiabilities   float64
	CurrentAssets      float64
	CurrentLiabilities float64
	TotalEquity        float64
	Revenue            float64
	OperatingProfit    float64
	NetIncome          float64
}

// FinancialMetrics carries the profitability series. Entries are nil when
// the underlying ratio was not computable (zero denominator, missing year).
type FinancialMetrics struct {
	OperatingMargin []*float64 `json:"operatingMargin"`
	NetMargin       []*float64 `json:"netMargin"`
	ROE             []*float64 `json:"roe"`
	ROA             []*float64 `json:"roa"`
	Years           []string   `json:"years"`
}

// GrowthData carries year-over-year growth for revenue and net income.
type GrowthData struct {
	RevenueGrowth   []*float64 `json:"revenueGrowth"`
	NetIncomeGrowth []*float64 `json:"netIncomeGrowth"`
	Years           []string   `json:"years"`
}

// DebtLiquidityData carries the leverage and liquidity series.
type DebtLiquidityData struct {
	DebtRatio    []*float64 `json:"debtRatio"`
	CurrentRatio []*float64 `json:"currentRatio"`
	Years        []string   `json:"years"`
}

// FinancialMetricsResponse is the fixed output shape of the ratio
// pipeline. All arrays have exactly len(Years) entries, ordered
// most-recent-year-first.
type FinancialMetricsResponse struct {
	CompanyName       string            `json:"companyName"`
	FinancialMetrics  FinancialMetrics  `json:"financialMetrics"`
	GrowthData        GrowthData        `json:"growthData"`
	DebtLiquidityData DebtLiquidityData `json:"debtLiquidityData"`
}

// PeriodAmounts is one account's amounts in the formatted statements view.
type PeriodAmounts struct {
	Current    float64 `json:"당기"`
	Prior      float64 `json:"전기"`
	PriorPrior float64 `json:"전전기"`
}

// FormattedYear is one fiscal year of stored statements grouped by
// statement family, as served by the statements endpoint.
type FormattedYear struct {
	FiscalYear      string                   `json:"사업연도"`
	BalanceSheet    map[string]PeriodAmounts `json:"재무상태표"`
	IncomeStatement map[string]PeriodAmounts `json:"손익계산서"`
	CashFlow        map[string]PeriodAmounts `json:"현금흐름표"`
}

// CrawlResult reports the outcome of one (company, year) acquisition.
// Status is "success" or "error"; Data holds the rows as re-read from the
// store after persistence.
type CrawlResult struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    []StoredStatement `json:"data"`
}

// CompanyCrawlStatus is one company's outcome within a batch run.
type CompanyCrawlStatus struct {
	CompanyName string `json:"companyName"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	RowCount    int    `json:"rowCount"`
}

// CrawlRunSummary aggregates a batch crawl over the company universe.
type CrawlRunSummary struct {
	RunID     string               `json:"runId"`
	StartedAt string               `json:"startedAt"`
	Duration  string               `json:"duration"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Companies []CompanyCrawlStatus `json:"companies"`
}

package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/username/finratio/backend/src/logger"
	"github.com/username/finratio/backend/src/models"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	// Annual business report.
	annualReportCode = "11011"
	// Consolidated financial statements.
	consolidatedDivision = "CFS"
	// DART's "success" status code.
	dartStatusOK = "000"
	// How many years FetchStatements walks back when the caller did not
	// pin a year and the latest fiscal year has no filing yet.
	maxFallbackYears = 2
)

// Structs for the DART corpCode.xml company dump.
type corpCodeEntry struct {
	CorpCode  string `xml:"corp_code"`
	CorpName  string `xml:"corp_name"`
	StockCode string `xml:"stock_code"`
}

type corpCodeFile struct {
	XMLName xml.Name        `xml:"result"`
	List    []corpCodeEntry `xml:"list"`
}

// dartStatementResponse is the envelope of both statement endpoints.
type dartStatementResponse struct {
	Status  string                `json:"status"`
	Message string                `json:"message"`
	List    []models.RawStatement `json:"list"`
}

// dartServiceImpl implements the FilingSource interface against the DART
// open API. It shares one HTTP client with a cookie jar and throttles all
// outbound calls through a single rate limiter.
type dartServiceImpl struct {
	httpClient http.Client
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
}

// NewDartService creates a new instance of the DART filing source.
func NewDartService(apiKey, baseURL string, timeout time.Duration) FilingSource {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	client := http.Client{
		Jar:     jar,
		Timeout: timeout,
	}

	return &dartServiceImpl{
		httpClient: client,
		apiKey:     apiKey,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
	}
}

// get performs one throttled GET against the DART API.
func (s *dartServiceImpl) get(endpoint string, params url.Values) ([]byte, error) {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	params.Set("crtfc_key", s.apiKey)
	requestURL := fmt.Sprintf("%s/%s?%s", s.baseURL, endpoint, params.Encode())

	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/xml, application/zip")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DART %s returned status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	return body, nil
}

// FetchCompanyInfo downloads the DART company dump (a zip containing
// CORPCODE.xml) and scans it for an exact name match.
func (s *dartServiceImpl) FetchCompanyInfo(companyName string) (*models.Company, error) {
	logger.L.Info("Fetching company identity from DART", "company", companyName)

	body, err := s.get("corpCode.xml", url.Values{})
	if err != nil {
		return nil, err
	}

	zipReader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("opening corpCode archive: %w", err)
	}

	for _, file := range zipReader.File {
		if file.Name != "CORPCODE.xml" {
			continue
		}
		entry, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening CORPCODE.xml: %w", err)
		}
		defer entry.Close()

		var dump corpCodeFile
		if err := xml.NewDecoder(entry).Decode(&dump); err != nil {
			return nil, fmt.Errorf("decoding CORPCODE.xml: %w", err)
		}

		for _, candidate := range dump.List {
			if candidate.CorpName == companyName {
				return &models.Company{
					CorpCode:  candidate.CorpCode,
					CorpName:  candidate.CorpName,
					StockCode: candidate.StockCode,
				}, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, companyName)
	}

	return nil, fmt.Errorf("corpCode archive has no CORPCODE.xml entry")
}

// FetchStatements fetches balance-sheet, income-statement and cash-flow
// line items for one fiscal year. When year is 0 it targets the previous
// calendar year and walks back up to maxFallbackYears while the target
// year has no filing, since annual reports for year N appear months into
// year N+1.
func (s *dartServiceImpl) FetchStatements(corpCode string, year int) ([]models.RawStatement, error) {
	yearPinned := year > 0
	target := year
	if !yearPinned {
		target = time.Now().Year() - 1
	}
	floor := target - maxFallbackYears

	for {
		statements := s.fetchStatementsForYear(corpCode, target)
		if len(statements) > 0 {
			return statements, nil
		}
		if yearPinned || target <= floor {
			return nil, nil
		}
		logger.L.Info("No filing for fiscal year, trying the year before",
			"corpCode", corpCode, "year", target)
		target--
	}
}

// fetchStatementsForYear gathers one year's line items from both
// statement endpoints. Transport and provider errors are logged and
// treated as "no data" so a flaky year can fall back like a missing one.
func (s *dartServiceImpl) fetchStatementsForYear(corpCode string, year int) []models.RawStatement {
	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", annualReportCode)
	params.Set("fs_div", consolidatedDivision)

	var statements []models.RawStatement

	// Balance sheet and income statement share one endpoint.
	if items, ok := s.fetchStatementList(corpCode, year, "fnlttSinglAcnt.json", params); ok {
		for _, item := range items {
			if item.SjDiv != "BS" && item.SjDiv != "IS" {
				continue
			}
			statements = append(statements, item)
		}
	}

	// The cash-flow endpoint omits the statement division, so stamp it.
	if items, ok := s.fetchStatementList(corpCode, year, "fnlttCashFlow.json", params); ok {
		for _, item := range items {
			item.SjDiv = "CF"
			item.SjNm = "현금흐름표"
			statements = append(statements, item)
		}
	}

	return statements
}

// fetchStatementList calls one statement endpoint and unwraps the DART
// envelope. The second return value is false when the year yields no rows.
func (s *dartServiceImpl) fetchStatementList(corpCode string, year int, endpoint string, params url.Values) ([]models.RawStatement, bool) {
	body, err := s.get(endpoint, cloneValues(params))
	if err != nil {
		logger.L.Warn("DART request failed", "endpoint", endpoint, "corpCode", corpCode, "year", year, "error", err)
		return nil, false
	}

	var envelope dartStatementResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		logger.L.Warn("Failed to decode DART response", "endpoint", endpoint, "corpCode", corpCode, "year", year, "error", err)
		return nil, false
	}

	if envelope.Status != dartStatusOK {
		logger.L.Info("DART returned no data", "endpoint", endpoint, "corpCode", corpCode, "year", year,
			"status", envelope.Status, "message", envelope.Message)
		return nil, false
	}
	return envelope.List, len(envelope.List) > 0
}

func cloneValues(src url.Values) url.Values {
	dst := make(url.Values, len(src))
	for key, values := range src {
		dst[key] = append([]string(nil), values...)
	}
	return dst
}

package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"stocksy/internal/interfaces"
	"stocksy/internal/types"
)

// maxOutputSize is the largest page Twelve Data serves.
const maxOutputSize = 5000

// TwelveData fetches OHLC series from the Twelve Data REST API.
type TwelveData struct {
	client *resty.Client
	apiKey string
}

var _ interfaces.HistoryProvider = (*TwelveData)(nil)

func NewTwelveData(baseURL, apiKey string, timeout time.Duration) *TwelveData {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)

	return &TwelveData{client: client, apiKey: apiKey}
}

type timeSeriesResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
	} `json:"values"`
}

// TimeSeries returns up to outputSize bars, newest first as Twelve Data sends them.
func (td *TwelveData) TimeSeries(ctx context.Context, symbol, interval string, outputSize int) ([]types.HistoricalBar, error) {
	if td.apiKey == "" {
		return nil, fmt.Errorf("twelve data API key not configured")
	}
	if outputSize > maxOutputSize {
		outputSize = maxOutputSize
	}

	resp, err := td.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":     symbol,
			"interval":   interval,
			"outputsize": strconv.Itoa(outputSize),
			"apikey":     td.apiKey,
		}).
		Get("/time_series")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time series for %s: %w", symbol, err)
	}

	var body timeSeriesResponse
	if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr != nil {
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("twelve data API error %d: %s", resp.StatusCode(), resp.String())
		}
		return nil, fmt.Errorf("failed to parse time series response: %w", jsonErr)
	}
	if body.Status == "error" || resp.StatusCode() != http.StatusOK {
		msg := body.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("twelve data: %s", msg)
	}
	if len(body.Values) == 0 {
		return nil, fmt.Errorf("twelve data returned no values for %s", symbol)
	}

	bars := make([]types.HistoricalBar, 0, len(body.Values))
	for _, v := range body.Values {
		ohlc, err := parsePrices(v.Open, v.High, v.Low, v.Close)
		if err != nil {
			return nil, fmt.Errorf("bad bar %s for %s: %w", v.Datetime, symbol, err)
		}
		bars = append(bars, types.HistoricalBar{
			Time:  v.Datetime,
			Open:  ohlc[0],
			High:  ohlc[1],
			Low:   ohlc[2],
			Close: ohlc[3],
		})
	}
	return bars, nil
}

func parsePrices(raw ...string) ([]float64, error) {
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stocksy/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2).
		Width(80)

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	buyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	sellStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	holdStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)
)

func actionStyle(a types.Action) lipgloss.Style {
	switch a {
	case types.Buy:
		return buyStyle
	case types.Sell:
		return sellStyle
	default:
		return holdStyle
	}
}

func sentimentStyle(s types.Sentiment) lipgloss.Style {
	switch s {
	case types.Positive:
		return buyStyle
	case types.Negative:
		return sellStyle
	default:
		return holdStyle
	}
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-14s", label)) + value
}

func money(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func renderSentiment(r *types.SentimentReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", r.CompanyName, r.Symbol)))
	b.WriteString("\n")
	b.WriteString(row("Action", actionStyle(r.Action).Render(string(r.Action))) + "\n")
	b.WriteString(row("Sentiment", string(r.Sentiment)) + "\n")

	price := money(r.CurrentPrice)
	if r.ChangePercent != nil {
		price += fmt.Sprintf(" (%+.2f%%, %s)", *r.ChangePercent, r.Trend)
	}
	b.WriteString(row("Price", price) + "\n")
	b.WriteString(row("Reason", r.Reason) + "\n\n")

	for i, n := range r.News {
		line := fmt.Sprintf("%d. %s", i+1, n.Title)
		if i < len(r.ConfidenceBreakdown) {
			s := r.ConfidenceBreakdown[i]
			line += " " + sentimentStyle(s.Sentiment).Render(fmt.Sprintf("[%s %.0f%%]", s.Sentiment, s.Confidence))
		}
		b.WriteString(line + "\n")
		b.WriteString(labelStyle.Render("   "+n.Source) + "\n")
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderBacktest(r *types.BacktestReport) string {
	res := r.BacktestResult
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s backtest, %d days", r.Symbol, r.Days)))
	b.WriteString("\n")

	recStyle := holdStyle
	switch {
	case res.Profit > 0:
		recStyle = buyStyle
	case len(r.HistoricalData) >= 2:
		recStyle = sellStyle
	}
	b.WriteString(row("Result", recStyle.Render(res.Recommendation)) + "\n")
	b.WriteString(row("Buy", fmt.Sprintf("%.2f", res.BuyPrice)) + "\n")
	b.WriteString(row("Sell", fmt.Sprintf("%.2f", res.SellPrice)) + "\n")
	b.WriteString(row("Profit", fmt.Sprintf("%+.2f (%+.2f%%)", res.Profit, res.ReturnPct)) + "\n")
	b.WriteString(row("Bars", fmt.Sprintf("%d", len(r.HistoricalData))) + "\n")
	b.WriteString(row("Reason", r.Reason))

	return panelStyle.Render(b.String())
}

func renderError(err error) string {
	return errorStyle.Render(fmt.Sprintf("Error (%d): %s", types.StatusCode(err), err.Error()))
}

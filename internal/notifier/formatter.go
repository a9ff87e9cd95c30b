package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"TradeAdvisor/internal/model"
	"TradeAdvisor/internal/recorder"
)

// Format selects plain text for the terminal or HTML for Telegram.
type Format int

const (
	Text Format = iota
	HTML
)

// Formatter renders reports in one output format.
type Formatter struct {
	Format Format
}

func (f Formatter) bold(s string) string {
	if f.Format == HTML {
		return "<b>" + html.EscapeString(s) + "</b>"
	}
	return s
}

func (f Formatter) esc(s string) string {
	if f.Format == HTML {
		return html.EscapeString(s)
	}
	return s
}

// price rounds to 4 decimal places and drops trailing zeros.
func price(v float64) string {
	if !model.Defined(v) {
		return "N/A"
	}
	return decimal.NewFromFloat(v).Round(4).String()
}

// baseAsset returns BTC for BTC-USDT.
func baseAsset(symbol string) string {
	base, _, _ := strings.Cut(symbol, "-")
	return base
}

// SignalReport formats the result of one analysis run.
func (f Formatter) SignalReport(e *model.LogEntry, sig *model.Signal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 %s | %s\n", f.bold(e.Symbol+" Market Analysis"), f.esc(e.Timeframe))
	fmt.Fprintf(&b, "Current price: %s USDT\n\n", price(e.Price))

	icon := "🟢"
	if sig.Recommendation == model.Sell {
		icon = "🔴"
	}
	fmt.Fprintf(&b, "%s %s\n", icon, f.bold(strings.ToUpper(string(sig.Recommendation))+" signal"))
	fmt.Fprintf(&b, "Entry price: %s\n", price(sig.EntryPrice))
	fmt.Fprintf(&b, "Position size: %s %s\n", price(sig.PositionSize), f.esc(baseAsset(e.Symbol)))
	fmt.Fprintf(&b, "Leverage: %dx\n", sig.RecommendedLeverage)
	fmt.Fprintf(&b, "Capital: %s USDT\n\n", decimal.NewFromFloat(e.Capital).StringFixed(0))

	fmt.Fprintf(&b, "Stop loss: %s (%s)\n", price(sig.StopLoss.Price), sig.StopLoss.PercentString())
	fmt.Fprintf(&b, "Take profit: %s (%s)\n", price(sig.TakeProfit.Price), sig.TakeProfit.PercentString())
	fmt.Fprintf(&b, "Market trend: %s (%s)\n", sig.TrendInfo.Trend, sig.TrendInfo.Strength)
	fmt.Fprintf(&b, "Prediction score: %d%%\n", sig.PredictionAccuracy)

	patterns := "None"
	if len(sig.PatternsDetected) > 0 {
		names := make([]string, len(sig.PatternsDetected))
		for i, p := range sig.PatternsDetected {
			names[i] = string(p)
		}
		patterns = strings.Join(names, ", ")
	}
	fmt.Fprintf(&b, "Patterns: %s\n", patterns)
	fmt.Fprintf(&b, "Pullbacks: %d\n", sig.PullbacksCount)
	fmt.Fprintf(&b, "Community score: %d%%\n", sig.CommunityScore)
	return b.String()
}

// History formats entries newest first, at most limit rows.
func (f Formatter) History(entries []model.LogEntry, limit int) string {
	var b strings.Builder
	b.WriteString("🗂 " + f.bold("Signal History") + "\n")
	if len(entries) == 0 {
		b.WriteString("No signals recorded yet\n")
		return b.String()
	}
	if f.Format == HTML {
		b.WriteString("<pre>")
	}
	for _, e := range recorder.Latest(entries, limit) {
		fmt.Fprintf(&b, "%s  %-10s %-4s %-5s %14s  %dx\n",
			e.Timestamp.UTC().Format("2006-01-02 15:04"), f.esc(e.Symbol), f.esc(e.Timeframe),
			e.Signal, price(e.Price), e.Leverage)
	}
	if f.Format == HTML {
		b.WriteString("</pre>")
	}
	return b.String()
}

// Summary formats the performance metrics over the whole log.
func (f Formatter) Summary(s recorder.Summary) string {
	var b strings.Builder
	b.WriteString("📈 " + f.bold("Performance Metrics") + "\n")
	if s.Total == 0 {
		b.WriteString("No performance data available yet\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Total signals: %d\n", s.Total)
	fmt.Fprintf(&b, "Buy signals: %d\n", s.Buy)
	fmt.Fprintf(&b, "Sell signals: %d\n", s.Sell)
	fmt.Fprintf(&b, "Avg leverage: %.1fx\n", s.AvgLeverage)
	return b.String()
}

// Failure is the only detail shown to the user when a run fails.
const Failure = "analysis failed, please check your connection and try again"

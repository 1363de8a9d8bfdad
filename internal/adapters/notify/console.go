// Package notify presenta el reporte de ideas en la consola del operador.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyReport imprime el reporte en el modo configurado.
func (c *Console) NotifyReport(report domain.Report) error {
	if len(report.Ideas) == 0 {
		fmt.Fprintf(c.out, "[%s] no investment ideas generated\n", report.Date)
		return nil
	}

	if c.table {
		c.printFull(report)
	} else {
		return c.NotifySummary(report)
	}
	return nil
}

// NotifySummary imprime una línea compacta con los totales del día.
func (c *Console) NotifySummary(report domain.Report) error {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %d ideas, %d markets",
		now, report.Date, len(report.Ideas), len(report.MarketsAnalyzed))

	shown := 0
	for _, idea := range report.Ideas {
		if shown >= 4 {
			break
		}
		fmt.Fprintf(&sb, " | %s (%s, %s)", compactName(idea.Asset, 12), idea.Direction, idea.RiskLevel)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
	return nil
}

// printFull imprime la tabla completa de ideas.
func (c *Console) printFull(report domain.Report) {
	fmt.Fprintf(c.out, "\nInvestment ideas %s — %d ideas, markets: %s\n",
		report.Date, len(report.Ideas), strings.Join(report.MarketsAnalyzed, ", "))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Type", "Asset", "Market", "Dir", "Risk", "Horizon", "Title")

	for i, idea := range report.Ideas {
		table.Append(
			fmt.Sprintf("%d", i+1),
			idea.Type,
			compactName(idea.Asset, 20),
			idea.Market,
			idea.Direction,
			idea.RiskLevel,
			idea.TimeHorizon,
			compactName(idea.Title, 40),
		)
	}
	table.Render()

	if len(report.DataTypesUsed) > 0 {
		fmt.Fprintf(c.out, "data types: %s\n", strings.Join(report.DataTypesUsed, ", "))
	}
}

func compactName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

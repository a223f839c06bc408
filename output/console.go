package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/yourusername/wildsub/internal/types"
)

const separatorWidth = 60

// Printer writes user-facing status lines. Logs go to zap; these are
// the lines a user reads while a scan runs.
type Printer struct {
	out io.Writer

	info    *color.Color
	warning *color.Color
	failure *color.Color
	success *color.Color
	name    *color.Color
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:     out,
		info:    color.New(color.FgBlue),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
		success: color.New(color.FgGreen),
		name:    color.New(color.FgCyan),
	}
}

func (p *Printer) Info(format string, args ...interface{}) {
	p.line(p.info, "[*]", format, args...)
}

func (p *Printer) Warning(format string, args ...interface{}) {
	p.line(p.warning, "[!]", format, args...)
}

func (p *Printer) Error(format string, args ...interface{}) {
	p.line(p.failure, "[-]", format, args...)
}

func (p *Printer) Success(format string, args ...interface{}) {
	p.line(p.success, "[+]", format, args...)
}

func (p *Printer) line(c *color.Color, prefix, format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", c.Sprint(prefix), fmt.Sprintf(format, args...))
}

// PrintWildcard reports the wildcard snapshot taken before resolution
func (p *Printer) PrintWildcard(domain string, state *types.WildcardState) {
	if !state.HasWildcard() {
		p.Info("No wildcard DNS detected for %s", domain)
		return
	}

	p.Warning("Wildcard DNS detected for %s: %s", domain, strings.Join(state.IPs(), ", "))
	for _, scheme := range types.Schemes {
		if fp, ok := state.Fingerprint(scheme); ok {
			p.Info("%s baseline: status=%d length=%d title=%q server=%q",
				scheme, fp.StatusCode, fp.ContentLength, fp.Title, fp.Server)
		}
	}
}

// PrintResults prints the accepted subdomains between separator lines
func (p *Printer) PrintResults(subdomains []*types.Subdomain) {
	if len(subdomains) == 0 {
		p.Warning("No subdomains found")
		return
	}

	p.Success("Found %d subdomains", len(subdomains))

	separator := strings.Repeat("=", separatorWidth)
	fmt.Fprintln(p.out, separator)
	for _, sub := range subdomains {
		fmt.Fprintf(p.out, "%s -> %s\n", p.name.Sprint(sub.Domain), sub.Display())
	}
	fmt.Fprintln(p.out, separator)
}

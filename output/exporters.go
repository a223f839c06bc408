package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/yourusername/wildsub/internal/config"
	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap"
)

// Exporter handles output formatting and export
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{
		logger: logger,
	}
}

// Export writes subdomains to outputPath in the specified format. The
// slice is written in the order given.
func (e *Exporter) Export(ctx context.Context, subdomains []*types.Subdomain, format, outputPath string) error {
	e.logger.Info("Exporting results",
		zap.String("format", format),
		zap.String("path", outputPath),
		zap.Int("count", len(subdomains)),
	)

	var write func(io.Writer, []*types.Subdomain) error
	switch strings.ToLower(format) {
	case config.FormatJSON:
		write = WriteJSON
	case config.FormatCSV:
		write = WriteCSV
	case config.FormatText, "text", "":
		write = WriteText
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := write(file, subdomains); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outputPath, err)
	}

	e.logger.Info("Export complete", zap.String("path", outputPath))
	return nil
}

// WriteText writes one "<name> -> <ip1>, <ip2>" line per subdomain
func WriteText(w io.Writer, subdomains []*types.Subdomain) error {
	for _, sub := range subdomains {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", sub.Domain, sub.Display()); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
	}
	return nil
}

// WriteJSON writes an indented document with a generation timestamp
func WriteJSON(w io.Writer, subdomains []*types.Subdomain) error {
	if subdomains == nil {
		subdomains = []*types.Subdomain{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	output := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"total_count":  len(subdomains),
		"subdomains":   subdomains,
	}

	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteCSV writes a Domain,IP table with IPs joined by ';'
func WriteCSV(w io.Writer, subdomains []*types.Subdomain) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Domain", "IP"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, sub := range subdomains {
		if err := writer.Write([]string{sub.Domain, strings.Join(sub.IP, ";")}); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

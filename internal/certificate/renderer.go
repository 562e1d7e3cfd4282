package certificate

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Data is the structured record an investment certificate is rendered from.
type Data struct {
	InvestorName   string
	ProjectTitle   string
	AmountInvested int64
	TokensIssued   int64
	TokenPrice     int64
	ROIPercent     float64
	TenureMonths   int
	TxHash         string
	IssuedAt       time.Time
}

// Renderer turns a certificate record into a downloadable document.
type Renderer interface {
	Render(data Data, w io.Writer) error
}

// Lines returns the certificate body as display lines, shared by renderers.
func (d Data) Lines() []string {
	issued := d.IssuedAt
	if issued.IsZero() {
		issued = time.Now().UTC()
	}
	return []string{
		fmt.Sprintf("Investor Name: %s", d.InvestorName),
		fmt.Sprintf("Project: %s", d.ProjectTitle),
		fmt.Sprintf("Amount Invested: INR %d", d.AmountInvested),
		fmt.Sprintf("Tokens Issued: %d", d.TokensIssued),
		fmt.Sprintf("Token Price: INR %d", d.TokenPrice),
		fmt.Sprintf("ROI (Simulated): %s%%", trimFloat(d.ROIPercent)),
		fmt.Sprintf("Tenure: %d months", d.TenureMonths),
		fmt.Sprintf("Transaction Hash: %s", d.TxHash),
		fmt.Sprintf("Issued On: %s", issued.UTC().Format("2006-01-02 15:04 UTC")),
		"",
		"Disclaimer: This certificate is part of a demo simulation.",
		"No real money or regulated securities are involved.",
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

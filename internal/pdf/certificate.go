// Package pdf renders completion certificates.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"

	"github.com/payalife/lms-backend/internal/models"
)

// CertificateRenderer draws an A4 landscape certificate with a QR code that
// points at the public verification endpoint.
type CertificateRenderer struct {
	verifyBaseURL string
}

// NewCertificateRenderer takes the base URL certificates verify against,
// e.g. https://payalife.example.
func NewCertificateRenderer(verifyBaseURL string) *CertificateRenderer {
	return &CertificateRenderer{verifyBaseURL: verifyBaseURL}
}

func (r *CertificateRenderer) Render(cert models.Certificate) ([]byte, error) {
	doc := gofpdf.New("L", "mm", "A4", "")
	doc.SetTitle("Certificate of Completion", false)
	doc.AddPage()

	w, h := doc.GetPageSize()

	// Border
	doc.SetLineWidth(1.2)
	doc.SetDrawColor(30, 64, 124)
	doc.Rect(8, 8, w-16, h-16, "D")
	doc.SetLineWidth(0.3)
	doc.Rect(11, 11, w-22, h-22, "D")

	doc.SetFont("Helvetica", "B", 34)
	doc.SetTextColor(30, 64, 124)
	doc.SetY(36)
	doc.CellFormat(0, 14, "Certificate of Completion", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 14)
	doc.SetTextColor(60, 60, 60)
	doc.Ln(8)
	doc.CellFormat(0, 8, "This certifies that", "", 1, "C", false, 0, "")

	holder := cert.HolderPhone
	if cert.HolderName != nil && *cert.HolderName != "" {
		holder = *cert.HolderName
	}
	doc.SetFont("Helvetica", "B", 26)
	doc.SetTextColor(20, 20, 20)
	doc.Ln(2)
	doc.CellFormat(0, 12, holder, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 14)
	doc.SetTextColor(60, 60, 60)
	doc.Ln(2)
	doc.CellFormat(0, 8, "has successfully completed the course", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(30, 64, 124)
	doc.Ln(2)
	doc.CellFormat(0, 10, cert.CourseTitle, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(90, 90, 90)
	doc.Ln(6)
	doc.CellFormat(0, 6, fmt.Sprintf("Issued on %s", cert.IssuedAt.Format("January 2, 2006")), "", 1, "C", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Certificate No. %s", cert.CertificateNumber), "", 1, "C", false, 0, "")

	if err := r.drawQR(doc, cert, w, h); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// verifyURL is the public endpoint the printed QR resolves to.
func (r *CertificateRenderer) verifyURL(certID string) string {
	return fmt.Sprintf("%s/api/v1/certificates/%s/verify", r.verifyBaseURL, certID)
}

func (r *CertificateRenderer) drawQR(doc *gofpdf.Fpdf, cert models.Certificate, pageW, pageH float64) error {
	code, err := qr.Encode(r.verifyURL(cert.ID), qr.M, qr.Auto)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	code, err = barcode.Scale(code, 256, 256)
	if err != nil {
		return fmt.Errorf("scale qr: %w", err)
	}

	// The barcode image is 16-bit grayscale, which gofpdf's PNG reader
	// rejects. Repaint onto an 8-bit canvas first.
	flat := image.NewNRGBA(code.Bounds())
	draw.Draw(flat, flat.Bounds(), code, code.Bounds().Min, draw.Src)

	var img bytes.Buffer
	if err := png.Encode(&img, flat); err != nil {
		return fmt.Errorf("encode qr png: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("qr", opts, &img)
	doc.ImageOptions("qr", pageW-48, pageH-48, 30, 30, false, opts, 0, "")

	doc.SetFont("Helvetica", "", 7)
	doc.SetTextColor(120, 120, 120)
	doc.SetXY(pageW-52, pageH-17)
	doc.CellFormat(38, 4, "Scan to verify", "", 0, "C", false, 0, "")
	return nil
}

package notify

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Renderer writes one PDF per request under dir, named solicitud_<id>.pdf.
// Re-rendering the same request overwrites the previous file; concurrent
// renders for the same id are collapsed to a single write.
type Renderer struct {
	dir   string
	group singleflight.Group
}

func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

func (r *Renderer) Render(doc Document) (string, error) {
	key := fmt.Sprintf("%d", doc.ID)
	path, err, _ := r.group.Do(key, func() (any, error) {
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			return "", err
		}

		pdf, err := buildRequestPDF(documentLines(doc))
		if err != nil {
			return "", err
		}

		path := filepath.Join(r.dir, fmt.Sprintf("solicitud_%d.pdf", doc.ID))
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return "", err
		}
		return path, nil
	})
	if err != nil {
		return "", err
	}
	return path.(string), nil
}

func documentLines(doc Document) []string {
	return []string{
		fmt.Sprintf("Solicitud de permiso #%d", doc.ID),
		"",
		fmt.Sprintf("Nombre:   %s", doc.Name),
		fmt.Sprintf("Correo:   %s", doc.Email),
		fmt.Sprintf("Tipo:     %s", doc.LeaveType),
		fmt.Sprintf("Inicio:   %s", doc.StartDate),
		fmt.Sprintf("Fin:      %s", doc.EndDate),
		fmt.Sprintf("Motivo:   %s", doc.Reason),
		fmt.Sprintf("Estado:   %s", doc.Status),
		fmt.Sprintf("Creada:   %s", doc.CreatedAt),
	}
}

func buildRequestPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Solicitud de permiso"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}

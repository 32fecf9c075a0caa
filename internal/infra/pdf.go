package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CzarAl/domus-backend/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarReciboPDF renders a receipt for venta into dir/recibo_{folio}.pdf and
// returns the file path. Detalles must have Producto preloaded for names.
func GenerarReciboPDF(venta *model.Venta, negocio, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("recibo_%s.pdf", venta.Folio))

	// 74 × 105 mm, close to thermal receipt paper.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	w := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(w, 7, tr(negocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(w, 4, "Folio "+venta.Folio, "", 1, "C", false, 0, "")
	pdf.CellFormat(w, 4, venta.Fecha.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	nameW, qtyW, amtW := w*0.52, w*0.16, w*0.32
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(nameW, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(amtW, 5, "Importe", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range venta.Detalles {
		nombre := d.IDProducto.String()[:8]
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		if r := []rune(nombre); len(r) > 22 {
			nombre = string(r[:21]) + "."
		}
		pdf.CellFormat(nameW, 5, tr(nombre), "", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 5, fmt.Sprintf("x%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(amtW, 5, "$"+d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(nameW+qtyW, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(amtW, 6, "$"+venta.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(w, 4, tr("Pago: "+venta.MetodoPago), "", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(w, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write: %w", err)
	}
	return path, nil
}

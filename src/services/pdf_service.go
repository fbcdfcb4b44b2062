package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/username/dealdesk/backend/src/models"
)

type pdfServiceImpl struct{}

func NewPDFService() PDFService {
	return &pdfServiceImpl{}
}

// GenerateFinancialBreakdownPDF renders one section per completed
// transaction with its commission split, or a "no commission" note.
func (s *pdfServiceImpl) GenerateFinancialBreakdownPDF(items []models.FinancialBreakdownItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Financial Breakdown", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Financial Breakdown - Completed Transactions")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(12)

	if len(items) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 8, "No completed transactions.")
	}

	for _, item := range items {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, item.Name)
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		if item.Description != "" {
			pdf.Cell(0, 6, item.Description)
			pdf.Ln(6)
		}
		pdf.Cell(0, 6, fmt.Sprintf("Total fee: %.2f", item.TotalFee))
		pdf.Ln(6)

		if item.Commission == nil {
			pdf.SetFont("Arial", "I", 10)
			pdf.Cell(0, 6, "No commission recorded.")
			pdf.Ln(10)
			continue
		}

		pdf.Cell(0, 6, fmt.Sprintf("Agency amount: %.2f", item.Commission.AgencyAmount))
		pdf.Ln(8)

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(55, 6, "Agent", "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, "Email", "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, "Role", "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, "Amount", "1", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, agent := range item.Commission.Agents {
			name := fmt.Sprintf("%s %s", agent.Name, agent.Surname)
			if agent.Name == "" && agent.Surname == "" {
				name = agent.AgentID
			}
			pdf.CellFormat(55, 6, name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 6, agent.Email, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, string(agent.Role), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", agent.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render financial breakdown PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateTransactionHistoryPDF renders the audit trail in append order.
func (s *pdfServiceImpl) GenerateTransactionHistoryPDF(transactionID, transactionName string, history []models.HistoryEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Transaction History", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Transaction History - %s", transactionName))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Transaction ID: %s", transactionID))
	pdf.Ln(10)

	if len(history) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 8, "No history entries.")
	}

	for _, entry := range history {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, fmt.Sprintf("%s - %s", entry.CreatedAt.Format(time.RFC3339), entry.Type))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)

		payload, err := entry.DecodePayload()
		if err != nil {
			pdf.MultiCell(0, 5, fmt.Sprintf("Unreadable payload: %v", err), "", "L", false)
			pdf.Ln(4)
			continue
		}

		switch p := payload.(type) {
		case models.ChangeStagePayload:
			pdf.MultiCell(0, 5, p.Details, "", "L", false)
		case models.CommissionCalculationPayload:
			pdf.MultiCell(0, 5, p.Details, "", "L", false)
			pdf.Cell(0, 5, fmt.Sprintf("Agency amount: %.2f", p.AgencyAmount))
			pdf.Ln(5)
			for _, agent := range p.Agents {
				pdf.Cell(0, 5, fmt.Sprintf("  %s %s (%s): %.2f", agent.Name, agent.Surname, agent.Role, agent.Amount))
				pdf.Ln(5)
			}
		case models.NotePayload:
			if p.Details != "" {
				pdf.MultiCell(0, 5, p.Details, "", "L", false)
			}
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render transaction history PDF: %w", err)
	}
	return buf.Bytes(), nil
}

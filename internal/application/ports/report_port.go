package ports

import "github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"

// TransferReportGenerator genera el PDF de una orden de traspaso.
type TransferReportGenerator interface {
	GenerateTransferOrder(order *dto.TransferOrder) ([]byte, error)
}

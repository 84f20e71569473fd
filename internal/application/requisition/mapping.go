package requisition

import (
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// ToPackageResponse mapea el paquete sin sus miembros.
func ToPackageResponse(p *entity.Package) dto.PackageResponse {
	return dto.PackageResponse{
		ID:            p.ID,
		RequesterID:   p.RequesterID,
		CostCenter:    p.CostCenter,
		Project:       p.Project,
		Justification: p.Justification,
		Status:        p.Status,
		Resolution:    p.Resolution,
		CreatedAt:     p.CreatedAt,
		ApprovedAt:    p.ApprovedAt,
	}
}

// ToRequisitionResponse mapea una requisición a su DTO.
func ToRequisitionResponse(r *entity.Requisition) dto.RequisitionResponse {
	return dto.RequisitionResponse{
		ID:            r.ID,
		RequesterID:   r.RequesterID,
		ItemID:        r.ItemID,
		Quantity:      r.Quantity,
		CostCenter:    r.CostCenter,
		Project:       r.Project,
		Justification: r.Justification,
		Status:        r.Status,
		Resolution:    r.Resolution,
		PackageID:     r.PackageID,
		CreatedAt:     r.CreatedAt,
		ResolvedAt:    r.ResolvedAt,
	}
}

func ToRequisitionResponses(list []*entity.Requisition) []dto.RequisitionResponse {
	out := make([]dto.RequisitionResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ToRequisitionResponse(r))
	}
	return out
}

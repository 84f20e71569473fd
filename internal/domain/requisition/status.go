// Package requisition contiene las reglas puras del ciclo de vida de requisiciones y paquetes.
package requisition

import "github.com/jhoicas/Requisiciones-api/internal/domain/entity"

// DeriveStatus calcula el estado agregado de un paquete a partir de sus miembros:
//   - algún miembro pendiente        → pending
//   - todos aprobados                → approved
//   - todos rechazados               → rejected
//   - mezcla aprobados/rechazados    → partially_approved
//
// Un paquete sin miembros se considera pendiente.
func DeriveStatus(members []string) string {
	if len(members) == 0 {
		return entity.StatusPending
	}
	var approved, rejected int
	for _, s := range members {
		switch s {
		case entity.StatusApproved:
			approved++
		case entity.StatusRejected:
			rejected++
		default:
			return entity.StatusPending
		}
	}
	switch {
	case rejected == 0:
		return entity.StatusApproved
	case approved == 0:
		return entity.StatusRejected
	default:
		return entity.StatusPartiallyApproved
	}
}

// DeriveFromRequisitions atajo sobre una lista de requisiciones.
func DeriveFromRequisitions(reqs []*entity.Requisition) string {
	statuses := make([]string, 0, len(reqs))
	for _, r := range reqs {
		statuses = append(statuses, r.Status)
	}
	return DeriveStatus(statuses)
}

// CanTransition indica si una requisición puede pasar de from a to.
// Solo pending → approved | rejected; los estados resueltos son terminales.
func CanTransition(from, to string) bool {
	return from == entity.StatusPending && (to == entity.StatusApproved || to == entity.StatusRejected)
}

// IsTerminalPackage indica si el paquete ya no admite resoluciones.
func IsTerminalPackage(status string) bool {
	switch status {
	case entity.StatusApproved, entity.StatusRejected, entity.StatusPartiallyApproved:
		return true
	}
	return false
}

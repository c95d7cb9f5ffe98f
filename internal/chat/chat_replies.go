package chat

import (
	"fmt"
	"strings"

	"go-leavebot/internal/request"
)

// All user-facing text lives here, in Spanish. The engine only ever returns
// strings built from this file.

const (
	replyWelcome = "¡Hola! Soy el asistente de permisos laborales. Escribe tu nombre completo para iniciar una solicitud, o elige una opción:\n" +
		"1. Nueva solicitud\n" +
		"2. Consultar solicitud\n" +
		"3. Mis solicitudes\n" +
		"4. Salir\n" +
		"También puedes escribir \"cancelar solicitud\" o \"estadisticas\"."

	replyAskName           = "Perfecto. ¿Cuál es tu nombre completo?"
	replyAskNameAfterEmail = "Gracias. Ahora dime tu nombre completo."
	replyAskEmail          = "¿Cuál es tu correo electrónico?"
	replyInvalidEmail      = "Ese correo no parece válido. Por favor escribe tu correo (ej: tu@dominio.com)."
	replyAskType           = "¿Qué tipo de permiso requieres? (p. ej. Enfermedad, Personal, Estudio)"
	replyAskStart          = "¿Fecha de inicio? (AAAA-MM-DD)"
	replyAskEnd            = "¿Fecha de fin? (AAAA-MM-DD)"
	replyInvalidDate       = "No pude entender la fecha. Usa el formato AAAA-MM-DD o DD/MM/AAAA."
	replyEndBeforeStart    = "La fecha de fin es anterior a la fecha de inicio. Por favor ingresa una fecha de fin válida."
	replyAskReason         = "Cuéntame el motivo del permiso."

	replySubmissionCancelled = "Solicitud cancelada. Si quieres empezar de nuevo, escribe \"reiniciar\"."
	replyAskRequestID        = "Indica el número de la solicitud."
	replyInvalidRequestID    = "Necesito el número de la solicitud (solo dígitos)."
	replyFarewell            = "¡Hasta pronto! Escribe \"hola\" cuando necesites algo más."
	replyFallback            = "No te entendí. Escribe \"menu\" para ver las opciones."

	replyOptInYes = "Te enviaré la confirmación a tu correo."
	replyOptInNo  = "De acuerdo, no enviaré el correo de confirmación."

	replyPostMenu = "¿Necesitas algo más?\n" +
		"1. Nueva solicitud\n" +
		"2. Consultar solicitud\n" +
		"3. Mis solicitudes\n" +
		"4. Salir"
)

var actionEmailPrompts = map[Action]string{
	ActionConsult: "Indica tu correo electrónico para consultar una solicitud.",
	ActionList:    "Indica tu correo electrónico para listar tus solicitudes.",
	ActionCancel:  "Indica tu correo electrónico para cancelar una solicitud.",
	ActionStats:   "Indica tu correo electrónico para ver tus estadísticas.",
}

func summaryReply(slots Slots) string {
	return fmt.Sprintf(
		"Resumen:\nNombre: %s\nCorreo: %s\nTipo: %s\nInicio: %s\nFin: %s\nMotivo: %s\n\n¿Confirmas enviar la solicitud? (si/no)",
		slots.Name, slots.Email, slots.LeaveType, slots.StartDate, slots.EndDate, slots.Reason,
	)
}

func savedReply(id uint) string {
	return fmt.Sprintf(
		"Tu solicitud ha sido registrada con éxito. Número de solicitud: %d\n¿Quieres recibir la confirmación por correo? (si/no)",
		id,
	)
}

func requestLine(r request.LeaveRequest) string {
	return fmt.Sprintf("#%d | %s | %s → %s | %s",
		r.ID, r.LeaveType,
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"),
		r.Status,
	)
}

func requestLines(reqs []request.LeaveRequest) string {
	lines := make([]string, len(reqs))
	for i, r := range reqs {
		lines[i] = requestLine(r)
	}
	return strings.Join(lines, "\n")
}

func detailReply(r request.LeaveRequest) string {
	return fmt.Sprintf(
		"Solicitud #%d:\nNombre: %s\nCorreo: %s\nTipo: %s\nInicio: %s\nFin: %s\nMotivo: %s\nEstado: %s",
		r.ID, r.Name, r.Email, r.LeaveType,
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"),
		r.Reason, r.Status,
	)
}

func notFoundReply(id uint64, recent []request.LeaveRequest) string {
	if len(recent) == 0 {
		return fmt.Sprintf("No encontré la solicitud %d y no hay solicitudes registradas todavía.", id)
	}
	return fmt.Sprintf("No encontré la solicitud %d. Solicitudes recientes:\n%s\nIndica otro número de solicitud.",
		id, requestLines(recent))
}

func listReply(email string, reqs []request.LeaveRequest) string {
	if len(reqs) == 0 {
		return fmt.Sprintf("No encontré solicitudes para %s.", email)
	}
	return fmt.Sprintf("Solicitudes de %s:\n%s", email, requestLines(reqs))
}

func statsReply(email string, counts map[string]int64) string {
	total := int64(0)
	for _, c := range counts {
		total += c
	}
	rate := 0.0
	if total > 0 {
		rate = float64(counts[request.StatusApproved]) / float64(total) * 100
	}
	return fmt.Sprintf(
		"Estadísticas para %s:\nTotal: %d\nPendientes: %d\nAprobadas: %d\nRechazadas: %d\nCanceladas: %d\nTasa de aprobación: %.1f%%",
		email, total,
		counts[request.StatusPending], counts[request.StatusApproved],
		counts[request.StatusRejected], counts[request.StatusCancelled],
		rate,
	)
}

func cancelListReply(reqs []request.LeaveRequest) string {
	return fmt.Sprintf("Tus solicitudes pendientes:\n%s\nIndica el número de la solicitud a cancelar.",
		requestLines(reqs))
}

func noPendingReply(email string) string {
	return fmt.Sprintf("No tienes solicitudes pendientes para cancelar con el correo %s.", email)
}

func cancelNotFoundReply(id uint64) string {
	return fmt.Sprintf("No encontré una solicitud pendiente con el número %d. Indica otro número.", id)
}

func cancelledReply(id uint64) string {
	return fmt.Sprintf("La solicitud %d ha sido cancelada.", id)
}

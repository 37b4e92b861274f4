package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrNotLoggedIn             = errors.New("no hay sesión activa")
	ErrUsernameTaken           = errors.New("el nombre de usuario ya está registrado")
	ErrNoGeneratedID           = errors.New("el almacén no devolvió un id generado")
	ErrPaymentAlreadyProcessed = errors.New("el pago ya fue procesado")
	ErrTooManyAttempts         = errors.New("demasiados intentos fallidos")
)

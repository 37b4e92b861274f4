// Package luhn implementa el checksum módulo 10 (Luhn) usado en números de tarjeta.
package luhn

import "strings"

// Strip elimina espacios y guiones, los separadores admitidos al digitar una tarjeta.
func Strip(number string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			return -1
		}
		return r
	}, number)
}

// AllDigits indica si s no está vacío y contiene solo dígitos ASCII.
func AllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Valid aplica Luhn sobre una cadena de dígitos: de derecha a izquierda se dobla
// cada segundo dígito (restando 9 si pasa de 9) y la suma debe ser múltiplo de 10.
// Cualquier carácter no numérico invalida.
func Valid(digits string) bool {
	if !AllDigits(digits) {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

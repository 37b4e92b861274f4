package auth

// WithVerifier reemplaza la comparación bcrypt en los tests.
func WithVerifier(verify func(hash, plain string) bool) Option {
	return func(m *SessionManager) { m.verify = verify }
}

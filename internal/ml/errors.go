package ml

import "errors"

// Taxonomía de errores de entrenamiento. La falla de un trainer nunca
// aborta el ciclo de reentreno: se loguea y se sigue con el resto.
var (
	// Matriz degenerada: con menos de 2 usuarios o 2 películas la
	// factorización no tiene rango con el que trabajar.
	ErrInsufficientData = errors.New("datos insuficientes para factorizar")

	// Todos los documentos quedaron vacíos. El centinela del feature
	// store hace este caso inalcanzable en la práctica: es un chequeo
	// defensivo de invariante, no comportamiento esperado.
	ErrEmptyVocabulary = errors.New("vocabulario vacío: ningún documento tiene texto")
)

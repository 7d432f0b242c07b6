package utils

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// UnmarshalAndHandle decodifica data en T y se lo pasa al handler. Un payload
// que no decodifica se registra y se devuelve como error.
func UnmarshalAndHandle[T any](log *zap.Logger, data []byte, handler func(T) error) error {
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		log.Warn("Failed to unmarshal event data", zap.Error(err))
		return fmt.Errorf("unmarshal event data: %w", err)
	}
	return handler(evt)
}

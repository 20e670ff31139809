package util

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LogWithLabel writes an info line tagged with a label, typically a session id or callsign.
func LogWithLabel(label string, format string, args ...any) {
	logrus.WithField("label", label).Infof(format, args...)
}

// SendJSON marshals data and writes it as a single text frame.
func SendJSON(conn *websocket.Conn, data any) error {
	msg, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	logrus.Debugf("-> Sending: %s", string(msg))
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("error writing message: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML file and unmarshals it into a struct of type T.
func LoadConfig[T any](filepath string) (*T, error) {
	// 1. Read the file
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// 2. Unmarshal the YAML data into the struct
	return DecodeYAML[T](data)
}

// DecodeYAML unmarshals YAML bytes, typically an embedded resource, into a new T.
func DecodeYAML[T any](data []byte) (*T, error) {
	var config T
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &config, nil
}

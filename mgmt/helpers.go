/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Command is the JSON body of a management Control message.
type Command struct {
	Command    string `json:"command"`
	Prefix     string `json:"prefix,omitempty"`
	Connection uint64 `json:"connection,omitempty"`
	Cost       uint16 `json:"cost,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
	Capacity   *int   `json:"capacity,omitempty"`
	URI        string `json:"uri,omitempty"`

	// Connection the command was received on, 0 for internal callers
	ingress uint64
}

// Response is the JSON body of the Control message answering a command.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Body    interface{} `json:"body,omitempty"`
}

// MakeResponse creates a response.
func MakeResponse(status int, message string, body interface{}) *Response {
	return &Response{Status: status, Message: message, Body: body}
}

// ErrInvalidCommand is returned for command bodies that are not valid JSON or fail schema validation.
var ErrInvalidCommand = errors.New("invalid management command")

//go:embed command.schema.json
var commandSchemaText []byte

var commandSchema *gojsonschema.Schema

func init() {
	var err error
	commandSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(commandSchemaText))
	if err != nil {
		panic(fmt.Errorf("load command schema: %w", err))
	}
}

// decodeCommand validates the payload against the command schema and decodes it.
func decodeCommand(payload []byte) (*Command, error) {
	result, err := commandSchema.Validate(gojsonschema.NewBytesLoader(payload))
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCommand, err.Error())
	case !result.Valid():
		descs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descs = append(descs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCommand, strings.Join(descs, "; "))
	}

	cmd := new(Command)
	if err := json.Unmarshal(payload, cmd); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCommand, err.Error())
	}
	return cmd, nil
}

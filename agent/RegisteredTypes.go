package agent

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/rs/zerolog/log"
)

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	// Temporal difference methods
	QLearning Type = "QLearning"
	Sarsa     Type = "Sarsa"

	// Monte Carlo methods
	OnPolicyMonteCarlo  Type = "OnPolicyMonteCarlo"
	OffPolicyMonteCarlo Type = "OffPolicyMonteCarlo"

	// Game theoretic methods
	MinimaxQ Type = "MinimaxQ"

	// Planning with the exact model
	Planner Type = "Planner"
)

// Registered types with the package. Once a Type has been registered
// with this map, a Config with that type can be created.
//
// No Type's are registered with this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes = make(map[Type]reflect.Type)

// Register registers an agent's Type with a concrete Config type so
// that upon deserialization of a TypedConfig, Configs of type
// agentType are deserialized into the concrete type of config.
func Register(agentType Type, config Config) {
	log.Debug().Msgf("agent: registering %v", agentType)
	registeredTypes[agentType] = reflect.TypeOf(config)
}

// Registered returns whether a Type has been registered
func Registered(agentType Type) bool {
	_, ok := registeredTypes[agentType]
	return ok
}

// TypedConfig types a Config so that it can be deserialized into its
// concrete type without knowing that type beforehand.
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig types the argument Config
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	m := struct {
		Type   Type
		Config json.RawMessage
	}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}

	config, err := decode(m.Type, m.Config)
	if err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}

	t.Type = m.Type
	t.Config = config
	return nil
}

// FromMap creates the Config of type agentType whose fields are given
// by settings, keyed by the fields' JSON names. Fields missing from
// settings keep their zero values.
func FromMap(agentType Type, settings map[string]interface{}) (Config,
	error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("fromMap: %v", err)
	}

	config, err := decode(agentType, data)
	if err != nil {
		return nil, fmt.Errorf("fromMap: %v", err)
	}
	return config, nil
}

// decode uses reflection to unmarshal a Config into its concrete type
func decode(agentType Type, data []byte) (Config, error) {
	ty, ok := registeredTypes[agentType]
	if !ok {
		return nil, fmt.Errorf("no agent type %q registered", agentType)
	}

	value := reflect.New(ty)
	if len(data) > 0 {
		if err := json.Unmarshal(data, value.Interface()); err != nil {
			return nil, fmt.Errorf("could not decode %v config: %v",
				agentType, err)
		}
	}

	config := value.Elem().Interface().(Config)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %v config: %v", agentType, err)
	}
	return config, nil
}

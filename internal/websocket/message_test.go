package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rover_go/internal/models"
)

func TestNewTelemetryMessage(t *testing.T) {
	msg := NewTelemetryMessage(
		models.RoverSnapshot{Status: models.StatusIdle, LastCommand: "FORWARD"},
		models.GroundSnapshot{Terrain: models.TerrainDustyPlain},
		[]models.GroundWarning{{Level: models.WarnCaution, Message: "Terreno perigoso"}},
		models.PositionSnapshot{Latitude: 52.0719},
	)

	assert.Equal(t, "telemetry", msg.Type)
	assert.False(t, msg.Timestamp.IsZero())
	assert.Equal(t, models.StatusIdle, msg.Rover.Status)
	assert.Len(t, msg.Warnings, 1)

	data, err := SerializeMessage(msg)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "telemetry", decoded["type"])
	assert.Contains(t, decoded, "rover")
	assert.Contains(t, decoded, "ground")
	assert.Contains(t, decoded, "position")
}

func TestNewStatusMessage(t *testing.T) {
	msg := NewStatusMessage(models.RoverSnapshot{
		Status:      models.StatusBusy,
		LastCommand: "LEFT",
	})

	assert.Equal(t, "status", msg.Type)
	assert.Equal(t, models.StatusBusy, msg.Status)
	assert.Equal(t, "LEFT", msg.LastCommand)
}

func TestNewErrorMessageCarriesCode(t *testing.T) {
	msg := NewErrorMessage("comando inválido", "INVALID_COMMAND")

	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "comando inválido", msg.Error)

	data, err := SerializeMessage(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INVALID_COMMAND")
}

func TestParseClientCommand(t *testing.T) {
	cmd, err := ParseClientCommand([]byte(`{"type":"get_status","id":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, "get_status", cmd.Type)
	assert.Equal(t, "abc", cmd.ID)

	_, err = ParseClientCommand([]byte(`{invalid`))
	assert.Error(t, err)
}

func TestCreatePongResponseEchoesPingTime(t *testing.T) {
	pong := CreatePongResponse(123456)

	assert.Equal(t, "pong", pong.Type)
	assert.Equal(t, int64(123456), pong.Time)
	assert.Greater(t, pong.ServerTime, int64(0))
}

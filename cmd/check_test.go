package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainmocks "livesync.dev/pkg/livesync/internal/domain/mocks"
	m "livesync.dev/pkg/livesync/internal/model"
)

func TestCheckCmd(t *testing.T) {
	tests := []struct {
		name        string
		isBlueprint bool
		args        []string
		want        string
	}{
		{"blueprint", true, []string{"check", "/content/bp"}, "/content/bp is available for rollout"},
		{"not a blueprint", false, []string{"check", "/content/bp"}, "/content/bp is not available for rollout"},
		{"json", true, []string{"check", "--json", "/content/bp"}, `"isAvailableForRollout": true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWorkflow := domainmocks.NewMockWorkflow(t)
			useWorkflow(t, mockWorkflow)

			mockWorkflow.On("Check", mock.Anything, "/content/bp").Return(tt.isBlueprint, nil)

			cmd, out := newTestRootCmd(t, newCheckCmd())
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestCheckCmd_InvalidPath(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("Check", mock.Anything, " ").Return(false, m.ErrInvalidInput)

	cmd, _ := newTestRootCmd(t, newCheckCmd())
	cmd.SetArgs([]string{"check", " "})

	require.ErrorIs(t, cmd.Execute(), m.ErrInvalidInput)
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/gateway"
	"github.com/guttosm/fertilizer-service/internal/reference"
	"github.com/guttosm/fertilizer-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unreachableSoilAPI struct{}

func (unreachableSoilAPI) FetchPrescription(context.Context, string, model.SoilSample) (model.NutrientPrescription, error) {
	return model.NutrientPrescription{}, errors.New("connection refused")
}

// testApp wires the CLI against embedded reference data and fallback
// prescriptions.
func testApp(t *testing.T) *App {
	t.Helper()
	store, err := reference.NewStore(reference.Options{})
	require.NoError(t, err)
	provider := gateway.NewResilientProvider(unreachableSoilAPI{})
	return &App{
		Recommendations: service.NewAggregator(provider, store),
		Reference:       store,
	}
}

// executeCmd runs a command and captures its output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestReportCmd(t *testing.T) {
	app := testApp(t)

	tests := []struct {
		name     string
		args     []string
		wantErr  string
		contains []string
	}{
		{
			name:     "single crop",
			args:     []string{"report", "--crop", "맥주보리"},
			contains: []string{"맥주보리 (01001, 맥류)", "처방량", "기본 처방값 사용"},
		},
		{
			name:     "multiple crops",
			args:     []string{"report", "--crop", "맥주보리", "--crop", "감자"},
			contains: []string{"감자", "성공 2, 실패 0 / 전체 2"},
		},
		{
			name:    "no crop",
			args:    []string{"report"},
			wantErr: "at least one --crop",
		},
		{
			name:    "unsupported crop",
			args:    []string{"report", "--crop", "알수없는작물"},
			wantErr: "알수없는작물",
		},
		{
			name:    "too many crops",
			args:    []string{"report", "--crop", "맥주보리,밀,귀리,호밀"},
			wantErr: "at most 3 allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCmd(t, app, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestReportCmd_JSON(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "report", "--crop", "맥주보리", "--area", "1000", "--json")
	require.NoError(t, err)

	var result model.RecommendationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1000.0, result.Farm.AreaM2)
	assert.Equal(t, 4.9, result.FarmNeeds.Base.N)
	assert.True(t, result.Degraded())
}

func TestCropsCmd(t *testing.T) {
	app := testApp(t)

	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		contains []string
	}{
		{"all crops", []string{"crops"}, false, []string{"맥주보리", "쌀", "국화"}},
		{"one category", []string{"crops", "--category", "서류"}, false, []string{"감자", "고구마"}},
		{"unknown category", []string{"crops", "--category", "해조류"}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCmd(t, app, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd(testApp(t))

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"report", "crops", "mcp"})
}

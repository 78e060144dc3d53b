package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barleyXML = `<?xml version="1.0" encoding="UTF-8"?>
<response>
  <header>
    <result_Code>200</result_Code>
    <result_Msg>NORMAL SERVICE.</result_Msg>
  </header>
  <body>
    <items>
      <item>
        <crop_Code>01001</crop_Code>
        <crop_Nm>맥주보리</crop_Nm>
        <pre_Fert_N>4.9</pre_Fert_N>
        <pre_Fert_P>24.8</pre_Fert_P>
        <pre_Fert_K>3.0</pre_Fert_K>
        <post_Fert_N>3.2</post_Fert_N>
        <post_Fert_P></post_Fert_P>
        <post_Fert_K>0</post_Fert_K>
        <pre_Compost_Cattl>1500</pre_Compost_Cattl>
        <pre_Compost_Pig>330</pre_Compost_Pig>
        <pre_Compost_Chick>255</pre_Compost_Chick>
        <pre_Compost_Mix>541</pre_Compost_Mix>
      </item>
      <item>
        <crop_Code>01001</crop_Code>
        <pre_Fert_N>99</pre_Fert_N>
      </item>
    </items>
  </body>
</response>`

func testSoil() model.SoilSample {
	return model.SoilSample{PH: 6.5, OrganicMatter: 22, AvailablePhosphate: 10, Potassium: 4, Calcium: 6, Magnesium: 13, ElectricalConductivity: 6}
}

func TestParseSoilResponse(t *testing.T) {
	p, err := ParseSoilResponse([]byte(barleyXML))

	require.NoError(t, err)
	assert.Equal(t, "01001", p.CropCode)
	assert.Equal(t, "맥주보리", p.CropName)
	assert.Equal(t, model.NPK{N: 4.9, P: 24.8, K: 3.0}, p.Base)
	assert.Equal(t, model.NPK{N: 3.2}, p.Topdress)
	assert.Equal(t, model.CompostRates{Cattle: 1500, Pig: 330, Chicken: 255, Mixed: 541}, p.Compost)
}

func TestParseSoilResponse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected error
	}{
		{
			name:     "not xml",
			body:     "<html>gateway error",
			expected: ErrMalformedResponse,
		},
		{
			name:     "failed result code",
			body:     `<response><header><result_Code>30</result_Code><result_Msg>SERVICE KEY IS NOT REGISTERED</result_Msg></header></response>`,
			expected: ErrAPIResult,
		},
		{
			name:     "no items",
			body:     `<response><header><result_Code>200</result_Code></header><body><items></items></body></response>`,
			expected: ErrNoData,
		},
		{
			name:     "non numeric dosage",
			body:     `<response><header><result_Code>200</result_Code></header><body><items><item><pre_Fert_N>abc</pre_Fert_N></item></items></body></response>`,
			expected: ErrMalformedResponse,
		},
		{
			name:     "negative dosage",
			body:     `<response><header><result_Code>200</result_Code></header><body><items><item><pre_Fert_K>-1</pre_Fert_K></item></items></body></response>`,
			expected: ErrMalformedResponse,
		},
		{
			name:     "NaN dosage",
			body:     `<response><header><result_Code>200</result_Code></header><body><items><item><pre_Fert_N>NaN</pre_Fert_N></item></items></body></response>`,
			expected: ErrMalformedResponse,
		},
		{
			name:     "infinite dosage",
			body:     `<response><header><result_Code>200</result_Code></header><body><items><item><pre_Fert_K>+Inf</pre_Fert_K></item></items></body></response>`,
			expected: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSoilResponse([]byte(tt.body))
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestSoilClient_FetchPrescription(t *testing.T) {
	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(barleyXML))
	}))
	defer server.Close()

	client := NewSoilClient(server.URL, "secret", time.Second)
	p, err := client.FetchPrescription(context.Background(), "01001", testSoil())

	require.NoError(t, err)
	assert.Equal(t, 4.9, p.Base.N)
	assert.Equal(t, map[string]string{
		"serviceKey":  "secret",
		"crop_Code":   "01001",
		"acid":        "6.5",
		"om":          "22",
		"vldpha":      "10",
		"posifert_K":  "4",
		"posifert_Ca": "6",
		"posifert_Mg": "13",
		"selc":        "6",
	}, query)
}

func TestSoilClient_FetchPrescription_Failures(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := NewSoilClient(server.URL, "k", time.Second).FetchPrescription(context.Background(), "01001", testSoil())
		assert.ErrorIs(t, err, ErrUpstreamStatus)
		assert.Equal(t, "bad_status", failureReason(err))
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := NewSoilClient(server.URL, "k", time.Second).FetchPrescription(ctx, "01001", testSoil())
		assert.Error(t, err)
		assert.Equal(t, "timeout", failureReason(err))
	})
}

package gateway

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
)

// resultOK is the header code of a successful soil API response.
const resultOK = "200"

const maxBodyBytes = 1 << 20

// SoilClient calls the soil fertilizer prescription API.
type SoilClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewSoilClient creates a client with the given per-call timeout.
func NewSoilClient(baseURL, apiKey string, timeout time.Duration) *SoilClient {
	return &SoilClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type soilResponse struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		Code    string `xml:"result_Code"`
		Message string `xml:"result_Msg"`
	} `xml:"header"`
	Items []soilItem `xml:"body>items>item"`
}

type soilItem struct {
	CropCode      string `xml:"crop_Code"`
	CropName      string `xml:"crop_Nm"`
	PreN          string `xml:"pre_Fert_N"`
	PreP          string `xml:"pre_Fert_P"`
	PreK          string `xml:"pre_Fert_K"`
	PostN         string `xml:"post_Fert_N"`
	PostP         string `xml:"post_Fert_P"`
	PostK         string `xml:"post_Fert_K"`
	CompostCattle string `xml:"pre_Compost_Cattl"`
	CompostPig    string `xml:"pre_Compost_Pig"`
	CompostChick  string `xml:"pre_Compost_Chick"`
	CompostMix    string `xml:"pre_Compost_Mix"`
}

// FetchPrescription requests the per-1000 m² prescription for cropCode and
// soil.
func (c *SoilClient) FetchPrescription(ctx context.Context, cropCode string, soil model.SoilSample) (model.NutrientPrescription, error) {
	q := url.Values{}
	q.Set("serviceKey", c.apiKey)
	q.Set("crop_Code", cropCode)
	q.Set("acid", formatFloat(soil.PH))
	q.Set("om", formatFloat(soil.OrganicMatter))
	q.Set("vldpha", formatFloat(soil.AvailablePhosphate))
	q.Set("posifert_K", formatFloat(soil.Potassium))
	q.Set("posifert_Ca", formatFloat(soil.Calcium))
	q.Set("posifert_Mg", formatFloat(soil.Magnesium))
	q.Set("selc", formatFloat(soil.ElectricalConductivity))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return model.NutrientPrescription{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.NutrientPrescription{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.NutrientPrescription{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.NutrientPrescription{}, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	p, err := ParseSoilResponse(body)
	if err != nil {
		return model.NutrientPrescription{}, err
	}
	p.CropCode = cropCode
	return p, nil
}

// ParseSoilResponse decodes the XML body. Only the first item is used and
// empty numeric fields read as zero.
func ParseSoilResponse(body []byte) (model.NutrientPrescription, error) {
	var r soilResponse
	if err := xml.Unmarshal(body, &r); err != nil {
		return model.NutrientPrescription{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if code := strings.TrimSpace(r.Header.Code); code != resultOK {
		return model.NutrientPrescription{}, fmt.Errorf("%w: code %q: %s", ErrAPIResult, code, strings.TrimSpace(r.Header.Message))
	}
	if len(r.Items) == 0 {
		return model.NutrientPrescription{}, ErrNoData
	}
	item := r.Items[0]

	var p model.NutrientPrescription
	fields := []struct {
		name  string
		raw   string
		value *float64
	}{
		{"pre_Fert_N", item.PreN, &p.Base.N},
		{"pre_Fert_P", item.PreP, &p.Base.P},
		{"pre_Fert_K", item.PreK, &p.Base.K},
		{"post_Fert_N", item.PostN, &p.Topdress.N},
		{"post_Fert_P", item.PostP, &p.Topdress.P},
		{"post_Fert_K", item.PostK, &p.Topdress.K},
		{"pre_Compost_Cattl", item.CompostCattle, &p.Compost.Cattle},
		{"pre_Compost_Pig", item.CompostPig, &p.Compost.Pig},
		{"pre_Compost_Chick", item.CompostChick, &p.Compost.Chicken},
		{"pre_Compost_Mix", item.CompostMix, &p.Compost.Mixed},
	}
	for _, f := range fields {
		v, err := parseNumber(f.raw)
		if err != nil {
			return model.NutrientPrescription{}, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, f.name, err)
		}
		if v < 0 {
			return model.NutrientPrescription{}, fmt.Errorf("%w: %s is negative", ErrMalformedResponse, f.name)
		}
		*f.value = v
	}
	p.CropCode = strings.TrimSpace(item.CropCode)
	p.CropName = strings.TrimSpace(item.CropName)
	return p, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

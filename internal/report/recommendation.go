package report

import (
	"fmt"
	"strings"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/reference"
)

// Recommendation prints the full report for one crop.
func (p *Printer) Recommendation(r model.RecommendationResult) {
	title := fmt.Sprintf("%s (%s, %s)", r.Crop.Name, r.Crop.Code, r.Crop.Category)
	p.printf("%s\n", p.box(p.render(styleBold, title)))
	p.printf("농장 면적: %gm² (%ga, %g×10a)\n", r.Farm.AreaM2, r.Farm.AreaA, r.Farm.Area10A)
	p.printf("%s\n\n", p.source(r.Source))

	p.printf("%s\n", p.header("토양 분석"))
	p.printf("%s\n", p.table(
		[]string{"pH", "유기물(g/kg)", "유효인산(mg/kg)", "칼륨", "칼슘", "마그네슘", "EC(dS/m)"},
		[][]string{{
			fmt.Sprintf("%g", r.Soil.PH),
			fmt.Sprintf("%g", r.Soil.OrganicMatter),
			fmt.Sprintf("%g", r.Soil.AvailablePhosphate),
			fmt.Sprintf("%g", r.Soil.Potassium),
			fmt.Sprintf("%g", r.Soil.Calcium),
			fmt.Sprintf("%g", r.Soil.Magnesium),
			fmt.Sprintf("%g", r.Soil.ElectricalConductivity),
		}},
	))

	p.printf("%s\n", p.header("처방량 (kg)"))
	p.printf("%s\n", p.table(
		[]string{"구분", "질소 /10a", "인산 /10a", "칼리 /10a", "질소 농장", "인산 농장", "칼리 농장"},
		[][]string{
			npkRow("밑거름", r.Standard.Base, r.FarmNeeds.Base),
			npkRow("웃거름", r.Standard.Topdress, r.FarmNeeds.Topdress),
		},
	))

	p.printf("%s\n", p.header("퇴비 (톤)"))
	p.printf("%s\n", p.table(
		[]string{"우분", "돈분", "계분", "혼합"},
		[][]string{{
			fmt.Sprintf("%.1f", model.Tons(r.Compost.CattleKg)),
			fmt.Sprintf("%.1f", model.Tons(r.Compost.PigKg)),
			fmt.Sprintf("%.1f", model.Tons(r.Compost.ChickenKg)),
			fmt.Sprintf("%.1f", model.Tons(r.Compost.MixedKg)),
		}},
	))

	p.printf("%s\n", p.header("밑거름 추천"))
	p.printf("%s\n", p.products(r.Fertilizers.Base))
	p.printf("%s\n", p.header("웃거름 추천"))
	p.printf("%s\n", p.products(r.Fertilizers.Topdress))
}

// Batch prints every crop of a multi-crop result followed by its summary.
func (p *Printer) Batch(b model.BatchResult) {
	for i, r := range b.Crops {
		if i > 0 {
			p.printf("\n")
		}
		p.Recommendation(r)
	}
	p.printf("%s\n", p.header("요약"))
	p.printf("성공 %d, 실패 %d / 전체 %d\n", b.Summary.Successful, b.Summary.Failed, b.TotalCrops)
	for _, e := range b.Summary.Errors {
		p.printf("%s %s: %s\n", p.render(styleRed, "✗"), e.Crop, e.Message)
	}
}

// Crops prints the crop code table.
func (p *Printer) Crops(crops []reference.Crop) {
	rows := make([][]string, 0, len(crops))
	for _, c := range crops {
		rows = append(rows, []string{c.Category, c.Code, c.Name})
	}
	p.printf("%s", p.table([]string{"분류", "코드", "작물"}, rows))
}

func (p *Printer) products(recs []model.UsageRecommendation) string {
	if len(recs) == 0 {
		return p.render(styleDim, "(해당 비료 없음)") + "\n"
	}
	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.FertilizerName,
			fmt.Sprintf("%g-%g-%g", r.Grade.N, r.Grade.P2O5, r.Grade.K2O),
			num(r.UsageKg),
			num(r.Bags),
			p.shortage(r.ShortagePKg),
			p.shortage(r.ShortageKKg),
		})
	}
	return p.table([]string{"순위", "비료", "성분", "사용량(kg)", "포대", "인산 부족", "칼리 부족"}, rows)
}

func (p *Printer) shortage(kg float64) string {
	if kg <= 0 {
		return p.render(styleGreen, "0")
	}
	return p.render(styleYellow, num(kg))
}

func (p *Printer) source(s model.PrescriptionSource) string {
	if !s.Degraded {
		label := "출처: " + s.Provider
		if s.Cached {
			label += " (cached)"
		}
		return p.render(styleDim, label)
	}
	parts := []string{"기본 처방값 사용", s.Provider}
	if s.Reason != "" {
		parts = append(parts, s.Reason)
	}
	return p.render(styleYellow, "⚠ "+strings.Join(parts, " · "))
}

func npkRow(label string, per10a, farm model.NPK) []string {
	return []string{label, num(per10a.N), num(per10a.P), num(per10a.K), num(farm.N), num(farm.P), num(farm.K)}
}

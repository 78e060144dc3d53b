package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/knowledge"
	"github.com/guttosm/fertilizer-service/internal/llm"
	"github.com/guttosm/fertilizer-service/internal/logger"
)

// DefaultSearchLimit is the number of passages handed to the answer prompt.
const DefaultSearchLimit = 5

const routePrompt = `당신은 농업 AI 어시스턴트의 라우터입니다. 사용자 질문을 분석해서 어떤 방식으로 답변할지 결정하세요.

현재 시스템 정보:
- 현재 날짜: %s
- 사용자 작물: %s
- 토양 정보: %s

"DIRECT"는 다음에만 해당합니다:
- 현재 날짜 질문
- 키우는 작물 목록 질문
- 토양 상태 (pH, 유기물, 영양소) 질문
- 단순 인사말, 감사 표현

"SEARCH"는 그 밖의 모든 경우입니다:
- 병해충, 질병, 재배 기술, 비료 관리, 기상 활용, 수확과 저장 방법
- "어떻게", "방법", "관리", "방제" 등이 포함된 질문

질문: %s

위 기준에 따라 정확히 DIRECT 또는 SEARCH 중 하나만 답하세요.
결정:`

const directPrompt = `너는 농업 전문가야. 아래 사용자 정보를 바탕으로 질문에 답변해줘.

현재 정보:
- 현재 날짜: %s
- 재배 작물: %s
- 작물별 파종일과 생육단계: %s
- 토양 상태: %s

질문: %s

친근하고 전문적으로 답변해줘. 질문이 농업과 관련이 없다면 정중하게 농업 관련 질문을 요청해줘.`

const answerPrompt = `너는 작물 재배, 병충해 방제, 농업 기상 해석에 전문성을 가진 농업 전문가다.
아래 컨텍스트를 기반으로 질문에 대해 구체적이고 실용적인 농사 조언을 제공하라.

농업 표준 단위를 사용한다:
- 면적은 a(아르) 단위 (1a = 100㎡, 10a = 1,000㎡)
- 예: "10a당 질소 15kg", "250a 농장에서는..."

현재 사용자 농장 정보 (참고만 하고 새로운 수치의 근거로 쓰지 않는다):
- 현재 날짜: %s
- 농장 면적: %ga
- 재배 작물: %s
- 토양 상태: %s

규칙:
1. 컨텍스트에 없는 수치, 날짜, 지명은 만들지 말고 "자료에 없음"이라고 쓴다.
2. 수치와 사실 정보 옆에는 출처를 괄호로 표기한다.
3. 답변은 핵심 요약과 세부 조언으로 구성한다.
4. 비료량을 말할 때는 a 단위와 함께 포대 수나 kg을 제공한다.
5. 컨텍스트에 존재하는 문서명과 페이지만 인용한다.

컨텍스트:
%s

질문:
%s

답변:`

// Assistant answers farm questions.
type Assistant interface {
	Ask(ctx context.Context, message string) (*model.ChatAnswer, error)
}

// ChatOption configures a ChatService.
type ChatOption func(*ChatService)

// WithSearchLimit sets how many passages are retrieved per question.
func WithSearchLimit(n int) ChatOption {
	return func(s *ChatService) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithChatClock replaces time.Now for the date given to the model.
func WithChatClock(now func() time.Time) ChatOption {
	return func(s *ChatService) {
		if now != nil {
			s.now = now
		}
	}
}

// ChatService routes a question to a direct answer from the farm profile or
// to a search-grounded answer.
type ChatService struct {
	client    llm.Client
	searcher  knowledge.Searcher
	reference ReferenceSource
	limit     int
	now       func() time.Time
}

// NewChatService creates a ChatService. A nil client makes every question
// fail with ErrChatUnavailable; a nil searcher answers SEARCH questions
// without context.
func NewChatService(client llm.Client, searcher knowledge.Searcher, ref ReferenceSource, opts ...ChatOption) *ChatService {
	s := &ChatService{
		client:    client,
		searcher:  searcher,
		reference: ref,
		limit:     DefaultSearchLimit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask answers message.
func (s *ChatService) Ask(ctx context.Context, message string) (*model.ChatAnswer, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, invalidInputError("message must not be empty")
	}
	if s.client == nil {
		return nil, chatUnavailableError(nil)
	}

	farm := s.reference.Snapshot().Farm()
	date := s.now().Format("2006년 1월 2일")

	route, err := s.route(ctx, message, date, farm)
	if err != nil {
		return nil, chatUnavailableError(err)
	}

	if route == model.RouteDirect {
		resp, err := s.client.Generate(ctx, llm.GenerateRequest{
			Task:   llm.TaskDirect,
			Prompt: fmt.Sprintf(directPrompt, date, cropList(farm), growthStages(farm), soilSummary(farm.Soil), message),
		})
		if err != nil {
			return nil, chatUnavailableError(err)
		}
		return &model.ChatAnswer{Answer: resp.Text, Routing: model.RouteDirect, Sources: []string{}}, nil
	}

	passages := s.search(ctx, message)
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task: llm.TaskAnswer,
		Prompt: fmt.Sprintf(answerPrompt, date, farm.AreaA(), cropList(farm), soilSummary(farm.Soil),
			contextBlock(passages), message),
	})
	if err != nil {
		return nil, chatUnavailableError(err)
	}
	return &model.ChatAnswer{
		Answer:  resp.Text,
		Routing: model.RouteSearch,
		Sources: knowledge.FormatSources(passages),
	}, nil
}

// route asks the model for a decision; anything other than DIRECT searches.
func (s *ChatService) route(ctx context.Context, message, date string, farm model.FarmProfile) (model.Route, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:   llm.TaskRoute,
		Prompt: fmt.Sprintf(routePrompt, date, cropList(farm), soilSummary(farm.Soil), message),
	})
	if err != nil {
		return "", err
	}
	if strings.Contains(strings.ToUpper(resp.Text), string(model.RouteDirect)) {
		return model.RouteDirect, nil
	}
	return model.RouteSearch, nil
}

func (s *ChatService) search(ctx context.Context, message string) []model.Passage {
	if s.searcher == nil {
		return nil
	}
	passages, err := s.searcher.Search(ctx, message, s.limit)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("knowledge search failed, answering without context")
		return nil
	}
	return passages
}

func cropList(farm model.FarmProfile) string {
	return strings.Join(farm.CropNames(), ", ")
}

func growthStages(farm model.FarmProfile) string {
	parts := make([]string, 0, len(farm.Crops))
	for _, c := range farm.Crops {
		parts = append(parts, fmt.Sprintf("%s(%s, %s)", c.Name, c.PlantedAt, c.GrowthStage))
	}
	return strings.Join(parts, ", ")
}

func soilSummary(s model.SoilSample) string {
	return fmt.Sprintf("pH %g, 유기물 %gg/kg, 유효인산 %gmg/kg, 칼륨 %gcmol+/kg, 칼슘 %gcmol+/kg, 마그네슘 %gcmol+/kg, 전기전도도 %gdS/m",
		s.PH, s.OrganicMatter, s.AvailablePhosphate, s.Potassium, s.Calcium, s.Magnesium, s.ElectricalConductivity)
}

func contextBlock(passages []model.Passage) string {
	if len(passages) == 0 {
		return "(관련 자료 없음)"
	}
	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s p.%d]\n%s", knowledge.DisplayName(p.Source), p.Page, p.Content)
	}
	return b.String()
}

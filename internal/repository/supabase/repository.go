package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/agrarwerk/stallbuch/internal/config"
	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

const dateLayout = "2006-01-02"

// ErrNotFound indicates the requested record does not exist upstream.
var ErrNotFound = errors.New("record not found")

// Repository defines the read operations against the hosted database plus the
// single write-back of a cycle's computed profit/loss. All reads materialize
// plain collections; the calculation core never talks to the network.
type Repository interface {
	GetCycle(ctx context.Context, id string) (models.Cycle, error)
	ListCycles(ctx context.Context, farmID string) ([]models.Cycle, error)
	ListConsumption(ctx context.Context, farmID string, from, to time.Time) ([]models.ConsumptionEvent, error)
	ListCostTransactions(ctx context.Context, farmID string) ([]models.CostTransaction, error)
	ListIncomeTransactions(ctx context.Context, farmID string) ([]models.IncomeTransaction, error)
	ListAreas(ctx context.Context, farmID string) ([]models.Area, error)
	ListAreaGroups(ctx context.Context, farmID string) ([]models.AreaGroup, error)
	ListAreaGroupMemberships(ctx context.Context, farmID string) ([]models.AreaGroupMembership, error)
	ListFeedTypes(ctx context.Context, farmID string) ([]models.FeedType, error)
	UpdateCycleProfitLoss(ctx context.Context, cycleID string, profitLoss float64) error
}

// RESTRepository implements Repository against the PostgREST endpoint of a
// hosted Supabase project.
type RESTRepository struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewRESTRepository builds the repository from the configured project URL and
// service key.
func NewRESTRepository(cfg config.SupabaseConfig, logger *zap.Logger) *RESTRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimSuffix(cfg.URL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base+"/rest/v1").
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &RESTRepository{httpClient: restyClient, logger: logger}
}

// apiError mirrors the PostgREST error payload.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (r *RESTRepository) list(ctx context.Context, table string, params url.Values, out any) error {
	apiErr := new(apiError)

	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(out).
		SetError(apiErr).
		Get("/" + table)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("supabase api error on %s: status=%d, code=%s, message=%s", table, resp.StatusCode(), apiErr.Code, apiErr.Message)
	}

	return nil
}

// GetCycle fetches one cycle with its embedded group details.
func (r *RESTRepository) GetCycle(ctx context.Context, id string) (models.Cycle, error) {
	params := url.Values{}
	params.Set("select", "*,livestock_count_details(*)")
	params.Set("id", "eq."+id)

	var cycles []models.Cycle
	if err := r.list(ctx, "livestock_counts", params, &cycles); err != nil {
		return models.Cycle{}, err
	}
	if len(cycles) == 0 {
		return models.Cycle{}, fmt.Errorf("cycle %s: %w", id, ErrNotFound)
	}

	r.warnMalformedDetails(cycles[0])
	return cycles[0], nil
}

// ListCycles fetches all cycles of a farm with their embedded group details.
func (r *RESTRepository) ListCycles(ctx context.Context, farmID string) ([]models.Cycle, error) {
	params := url.Values{}
	params.Set("select", "*,livestock_count_details(*)")
	params.Set("farm_id", "eq."+farmID)
	params.Set("order", "start_date.asc")

	var cycles []models.Cycle
	if err := r.list(ctx, "livestock_counts", params, &cycles); err != nil {
		return nil, err
	}
	for _, c := range cycles {
		r.warnMalformedDetails(c)
	}
	return cycles, nil
}

// ListConsumption fetches the farm's consumption events within [from, to].
func (r *RESTRepository) ListConsumption(ctx context.Context, farmID string, from, to time.Time) ([]models.ConsumptionEvent, error) {
	params := url.Values{}
	params.Set("farm_id", "eq."+farmID)
	params.Add("date", "gte."+from.Format(dateLayout))
	params.Add("date", "lte."+to.Format(dateLayout))
	params.Set("order", "date.asc")

	var events []models.ConsumptionEvent
	if err := r.list(ctx, "consumption", params, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *RESTRepository) ListCostTransactions(ctx context.Context, farmID string) ([]models.CostTransaction, error) {
	params := url.Values{}
	params.Set("farm_id", "eq."+farmID)

	var transactions []models.CostTransaction
	if err := r.list(ctx, "cost_transactions", params, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *RESTRepository) ListIncomeTransactions(ctx context.Context, farmID string) ([]models.IncomeTransaction, error) {
	params := url.Values{}
	params.Set("farm_id", "eq."+farmID)

	var transactions []models.IncomeTransaction
	if err := r.list(ctx, "income_transactions", params, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *RESTRepository) ListAreas(ctx context.Context, farmID string) ([]models.Area, error) {
	params := url.Values{}
	params.Set("farm_id", "eq."+farmID)

	var areas []models.Area
	if err := r.list(ctx, "areas", params, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *RESTRepository) ListAreaGroups(ctx context.Context, farmID string) ([]models.AreaGroup, error) {
	params := url.Values{}
	params.Set("farm_id", "eq."+farmID)

	var groups []models.AreaGroup
	if err := r.list(ctx, "area_groups", params, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *RESTRepository) ListAreaGroupMemberships(ctx context.Context, farmID string) ([]models.AreaGroupMembership, error) {
	params := url.Values{}
	params.Set("farm_id", "eq."+farmID)

	var memberships []models.AreaGroupMembership
	if err := r.list(ctx, "area_group_members", params, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *RESTRepository) ListFeedTypes(ctx context.Context, farmID string) ([]models.FeedType, error) {
	params := url.Values{}
	params.Set("farm_id", "eq."+farmID)

	var feedTypes []models.FeedType
	if err := r.list(ctx, "feed_types", params, &feedTypes); err != nil {
		return nil, err
	}
	return feedTypes, nil
}

// UpdateCycleProfitLoss writes a computed profit/loss back onto the cycle
// record.
func (r *RESTRepository) UpdateCycleProfitLoss(ctx context.Context, cycleID string, profitLoss float64) error {
	apiErr := new(apiError)

	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+cycleID).
		SetBody(map[string]any{"profit_loss": profitLoss}).
		SetError(apiErr).
		Patch("/livestock_counts")
	if err != nil {
		return fmt.Errorf("update cycle %s: %w", cycleID, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("supabase api error on cycle update: status=%d, code=%s, message=%s", resp.StatusCode(), apiErr.Code, apiErr.Message)
	}

	return nil
}

// warnMalformedDetails surfaces data problems the calculation core degrades
// over silently.
func (r *RESTRepository) warnMalformedDetails(cycle models.Cycle) {
	for _, d := range cycle.Details {
		if d.Count > 0 && d.AreaID == nil && d.AreaGroupID == nil {
			r.logger.Warn("group detail has neither area nor area group",
				zap.String("cycle_id", cycle.ID),
				zap.String("detail_id", d.ID))
		}
	}
}

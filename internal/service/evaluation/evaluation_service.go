package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
	"github.com/agrarwerk/stallbuch/internal/repository/mongodb"
	"github.com/agrarwerk/stallbuch/internal/repository/sheets"
	"github.com/agrarwerk/stallbuch/internal/repository/supabase"
	"github.com/agrarwerk/stallbuch/internal/service/metrics"
)

const exportRange = "Auswertung!A:L"

// Service orchestrates KPI evaluation: it materializes the required record
// collections from the hosted database, runs the calculation core over them,
// and distributes the results (profit/loss write-back, snapshot store,
// optional sheet export).
type Service struct {
	data   supabase.Repository
	store  mongodb.Repository
	export sheets.Repository
	calc   *metrics.Calculator
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new evaluation service. A nil export repository disables
// the sheet export.
func NewService(data supabase.Repository, store mongodb.Repository, export sheets.Repository, calc *metrics.Calculator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calc == nil {
		calc = metrics.NewCalculator(nil, nil)
	}
	return &Service{
		data:   data,
		store:  store,
		export: export,
		calc:   calc,
		logger: logger,
		now:    time.Now,
	}
}

// CycleMetrics computes the authoritative KPI record for one cycle.
func (s *Service) CycleMetrics(ctx context.Context, cycleID string) (models.CycleMetrics, error) {
	cycle, inputs, err := s.loadCycleInputs(ctx, cycleID)
	if err != nil {
		return models.CycleMetrics{}, err
	}
	return s.calc.CycleMetrics(cycle, inputs.consumption, inputs.costs, inputs.incomes, inputs.lookups), nil
}

// AreaMetrics computes the per-location KPI records for one cycle. An empty
// areaFilter includes every location group.
func (s *Service) AreaMetrics(ctx context.Context, cycleID string, areaFilter []string) ([]models.AreaMetrics, error) {
	cycle, inputs, err := s.loadCycleInputs(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	return s.calc.AreaMetrics(cycle, inputs.consumption, inputs.costs, inputs.lookups, areaFilter), nil
}

// FeedComponents computes the per-feed-type consumption summary for one cycle.
func (s *Service) FeedComponents(ctx context.Context, cycleID string) ([]models.FeedComponentSummary, error) {
	cycle, inputs, err := s.loadCycleInputs(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	return s.calc.FeedComponents(cycle, inputs.consumption, inputs.lookups), nil
}

// CachedMetrics returns the latest stored snapshot for a cycle, or nil when
// none has been computed yet.
func (s *Service) CachedMetrics(ctx context.Context, cycleID string) (*models.MetricsSnapshot, error) {
	return s.store.LatestForCycle(ctx, cycleID)
}

// EvaluateFarm recomputes the metrics of every cycle on the farm. Shared
// inputs are fetched once and filtered in memory per cycle. For each cycle
// the profit/loss is written back, a snapshot is stored, and an export row is
// appended when a sheet is configured. Write failures are logged and do not
// abort the run. Returns the number of evaluated cycles.
func (s *Service) EvaluateFarm(ctx context.Context, farmID string) (int, error) {
	cycles, err := s.data.ListCycles(ctx, farmID)
	if err != nil {
		return 0, fmt.Errorf("load cycles: %w", err)
	}
	if len(cycles) == 0 {
		return 0, nil
	}

	lookups, err := s.loadLookups(ctx, farmID)
	if err != nil {
		return 0, err
	}

	from, to := consumptionSpan(cycles, s.now())
	consumption, err := s.data.ListConsumption(ctx, farmID, from, to)
	if err != nil {
		return 0, fmt.Errorf("load consumption: %w", err)
	}
	costs, err := s.data.ListCostTransactions(ctx, farmID)
	if err != nil {
		return 0, fmt.Errorf("load cost transactions: %w", err)
	}
	incomes, err := s.data.ListIncomeTransactions(ctx, farmID)
	if err != nil {
		return 0, fmt.Errorf("load income transactions: %w", err)
	}

	evaluated := 0
	for _, cycle := range cycles {
		m := s.calc.CycleMetrics(cycle, consumption, costsForCycle(costs, cycle.ID), incomesForCycle(incomes, cycle.ID), lookups)

		if err := s.data.UpdateCycleProfitLoss(ctx, cycle.ID, m.ProfitLoss); err != nil {
			s.logger.Error("failed writing back profit/loss", zap.String("cycle_id", cycle.ID), zap.Error(err))
		}

		snapshot := models.MetricsSnapshot{
			ID:         uuid.NewString(),
			FarmID:     farmID,
			CycleID:    cycle.ID,
			ComputedAt: s.now(),
			Metrics:    m,
		}
		if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed storing metrics snapshot", zap.String("cycle_id", cycle.ID), zap.Error(err))
		}

		if s.export != nil {
			if err := s.export.AppendRow(ctx, exportRange, exportRow(cycle, m, snapshot.ComputedAt)); err != nil {
				s.logger.Error("failed exporting evaluation row", zap.String("cycle_id", cycle.ID), zap.Error(err))
			}
		}

		evaluated++
	}

	s.logger.Info("farm evaluation finished", zap.String("farm_id", farmID), zap.Int("cycles", evaluated))
	return evaluated, nil
}

type cycleInputs struct {
	consumption []models.ConsumptionEvent
	costs       []models.CostTransaction
	incomes     []models.IncomeTransaction
	lookups     metrics.Lookups
}

func (s *Service) loadCycleInputs(ctx context.Context, cycleID string) (models.Cycle, cycleInputs, error) {
	cycle, err := s.data.GetCycle(ctx, cycleID)
	if err != nil {
		return models.Cycle{}, cycleInputs{}, err
	}

	lookups, err := s.loadLookups(ctx, cycle.FarmID)
	if err != nil {
		return models.Cycle{}, cycleInputs{}, err
	}

	to := s.now()
	if cycle.End != nil {
		to = *cycle.End
	}
	consumption, err := s.data.ListConsumption(ctx, cycle.FarmID, cycle.Start, to)
	if err != nil {
		return models.Cycle{}, cycleInputs{}, fmt.Errorf("load consumption: %w", err)
	}
	costs, err := s.data.ListCostTransactions(ctx, cycle.FarmID)
	if err != nil {
		return models.Cycle{}, cycleInputs{}, fmt.Errorf("load cost transactions: %w", err)
	}
	incomes, err := s.data.ListIncomeTransactions(ctx, cycle.FarmID)
	if err != nil {
		return models.Cycle{}, cycleInputs{}, fmt.Errorf("load income transactions: %w", err)
	}

	return cycle, cycleInputs{
		consumption: consumption,
		costs:       costsForCycle(costs, cycle.ID),
		incomes:     incomesForCycle(incomes, cycle.ID),
		lookups:     lookups,
	}, nil
}

func (s *Service) loadLookups(ctx context.Context, farmID string) (metrics.Lookups, error) {
	areas, err := s.data.ListAreas(ctx, farmID)
	if err != nil {
		return metrics.Lookups{}, fmt.Errorf("load areas: %w", err)
	}
	groups, err := s.data.ListAreaGroups(ctx, farmID)
	if err != nil {
		return metrics.Lookups{}, fmt.Errorf("load area groups: %w", err)
	}
	memberships, err := s.data.ListAreaGroupMemberships(ctx, farmID)
	if err != nil {
		return metrics.Lookups{}, fmt.Errorf("load memberships: %w", err)
	}
	feedTypes, err := s.data.ListFeedTypes(ctx, farmID)
	if err != nil {
		return metrics.Lookups{}, fmt.Errorf("load feed types: %w", err)
	}

	areaNames := make(map[string]string, len(areas))
	for _, a := range areas {
		areaNames[a.ID] = a.Name
	}
	groupNames := make(map[string]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}
	feedTypeNames := make(map[string]string, len(feedTypes))
	for _, f := range feedTypes {
		feedTypeNames[f.ID] = f.Name
	}

	return metrics.Lookups{
		Memberships: metrics.NewMembershipIndex(memberships),
		AreaNames:   areaNames,
		GroupNames:  groupNames,
		FeedTypes:   feedTypeNames,
	}, nil
}

// consumptionSpan returns the widest window any of the cycles can consume in.
func consumptionSpan(cycles []models.Cycle, now time.Time) (time.Time, time.Time) {
	from := cycles[0].Start
	to := now
	for _, c := range cycles {
		if c.Start.Before(from) {
			from = c.Start
		}
		if c.End != nil && c.End.After(to) {
			to = *c.End
		}
	}
	return from, to
}

func costsForCycle(all []models.CostTransaction, cycleID string) []models.CostTransaction {
	out := make([]models.CostTransaction, 0, len(all))
	for _, t := range all {
		if t.CycleID != nil && *t.CycleID == cycleID {
			out = append(out, t)
		}
	}
	return out
}

func incomesForCycle(all []models.IncomeTransaction, cycleID string) []models.IncomeTransaction {
	out := make([]models.IncomeTransaction, 0, len(all))
	for _, t := range all {
		if t.CycleID != nil && *t.CycleID == cycleID {
			out = append(out, t)
		}
	}
	return out
}

func exportRow(cycle models.Cycle, m models.CycleMetrics, computedAt time.Time) []interface{} {
	name := cycle.Name
	if name == "" {
		name = cycle.ID
	}
	return []interface{}{
		computedAt.Format("2006-01-02"),
		name,
		m.TotalAnimals,
		m.WeightGain,
		m.TotalFeedQuantity,
		m.TotalFeedCost,
		m.AdditionalCosts,
		m.TotalCosts,
		m.TotalRevenue,
		m.ProfitLoss,
		m.ProfitMarginPct,
		m.FeedConversionRatio,
	}
}

package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

const (
	exportPageSize = 500
	csvDateLayout  = "2006-01-02"
	labelSeparator = ";"

	// Rows without a location or category land here.
	fallbackLocation = "Unsorted"
	fallbackCategory = "Uncategorized"
)

// ExportColumns is the header written by Export.
var ExportColumns = []string{
	"asset_id", "name", "description", "quantity", "location", "category", "labels",
	"serial_number", "purchase_date", "purchase_price", "warranty_expires", "archived",
}

// TransferService exports items to CSV and imports them back.
type TransferService struct {
	items      ports.ItemService
	itemRepo   ports.ItemRepository
	locations  ports.LocationRepository
	categories ports.CategoryRepository
	labels     ports.LabelRepository
	log        zerolog.Logger
}

// NewTransferService wires the service. Imported rows go through items so
// plan limits and asset ID assignment apply as for any other create.
func NewTransferService(
	items ports.ItemService,
	itemRepo ports.ItemRepository,
	locations ports.LocationRepository,
	categories ports.CategoryRepository,
	labels ports.LabelRepository,
	log zerolog.Logger,
) *TransferService {
	return &TransferService{
		items:      items,
		itemRepo:   itemRepo,
		locations:  locations,
		categories: categories,
		labels:     labels,
		log:        log,
	}
}

// Export streams the group's items as CSV, reading them page by page.
func (s *TransferService) Export(ctx context.Context, actor domain.Actor, w io.Writer, in ports.ExportInput) (int, error) {
	locs, err := s.locations.ListByGroup(ctx, actor.GroupID)
	if err != nil {
		return 0, fmt.Errorf("export: load locations: %w", err)
	}
	tree := domain.NewLocationTree(locs)

	categories, err := s.categories.List(ctx, actor.GroupID)
	if err != nil {
		return 0, fmt.Errorf("export: load categories: %w", err)
	}
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}
	labels, err := s.labels.List(ctx, actor.GroupID)
	if err != nil {
		return 0, fmt.Errorf("export: load labels: %w", err)
	}
	labelNames := make(map[string]string, len(labels))
	for _, l := range labels {
		labelNames[l.ID] = l.Name
	}

	filter := ports.ItemFilter{GroupID: actor.GroupID, Sort: "created_at", Limit: exportPageSize}
	if !in.IncludeArchived {
		active := false
		filter.Archived = &active
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return 0, err
	}
	written := 0
	for page := 1; ; page++ {
		filter.Page = page
		batch, total, err := s.itemRepo.List(ctx, filter)
		if err != nil {
			return written, fmt.Errorf("export: list items: %w", err)
		}
		for _, item := range batch {
			names := make([]string, 0, len(item.LabelIDs))
			for _, id := range item.LabelIDs {
				if n, ok := labelNames[id]; ok {
					names = append(names, n)
				}
			}
			record := []string{
				item.AssetID,
				item.Name,
				item.Description,
				strconv.Itoa(item.Quantity),
				tree.Path(item.LocationID, domain.PathSeparator),
				categoryNames[item.CategoryID],
				strings.Join(names, labelSeparator),
				item.SerialNumber,
				formatDate(item.Purchase.Date),
				formatPrice(item.Purchase.Price),
				formatDate(item.Warranty.Expires),
				strconv.FormatBool(item.Archived),
			}
			if err := cw.Write(record); err != nil {
				return written, err
			}
			written++
		}
		if len(batch) < exportPageSize || int64(page*exportPageSize) >= total {
			break
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, err
	}

	s.log.Info().Str("group_id", actor.GroupID).Int("items", written).Msg("items exported")
	return written, nil
}

// Import reads a CSV with a header row. Columns are matched by name,
// case-insensitively; only name is mandatory. Missing locations,
// categories and labels are created. Every row is committed on its own,
// so a bad row is reported without undoing the rows around it.
func (s *TransferService) Import(ctx context.Context, actor domain.Actor, r io.Reader) (*ports.ImportReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.Invalid("file is empty")
	}
	if err != nil {
		return nil, domain.Invalid("malformed csv: " + err.Error())
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, domain.Invalid("csv header must contain a name column")
	}

	res, err := s.newResolver(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}

	report := &ports.ImportReport{BatchID: uuid.NewString(), Errors: []ports.ImportRowError{}}
	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if err != nil && !errors.As(err, &pe) {
			return nil, fmt.Errorf("import: read csv: %w", err)
		}
		report.Total++
		if err == nil {
			err = s.importRow(ctx, actor, res, csvRow{cols: cols, values: record})
		}
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, ports.ImportRowError{Row: row, Message: rowMessage(err)})
			continue
		}
		report.Imported++
	}

	s.log.Info().
		Str("batch_id", report.BatchID).
		Str("group_id", actor.GroupID).
		Int("imported", report.Imported).
		Int("failed", report.Failed).
		Msg("items imported")
	return report, nil
}

func (s *TransferService) importRow(ctx context.Context, actor domain.Actor, res *resolver, rec csvRow) error {
	in := ports.ItemInput{
		Name:         rec.get("name"),
		Description:  rec.get("description"),
		AssetID:      rec.get("asset_id"),
		SerialNumber: rec.get("serial_number"),
		Model:        rec.get("model"),
		Manufacturer: rec.get("manufacturer"),
		Notes:        rec.get("notes"),
	}
	if in.Name == "" {
		return domain.Invalid("name is required")
	}

	var err error
	if q := rec.get("quantity"); q != "" {
		if in.Quantity, err = strconv.Atoi(q); err != nil || in.Quantity < 1 {
			return domain.Invalid("quantity must be a positive whole number")
		}
	}
	if in.Purchase.Date, err = parseDate(rec.get("purchase_date")); err != nil {
		return domain.Invalid("purchase_date must be YYYY-MM-DD")
	}
	if in.Warranty.Expires, err = parseDate(rec.get("warranty_expires")); err != nil {
		return domain.Invalid("warranty_expires must be YYYY-MM-DD")
	}
	if p := rec.get("purchase_price"); p != "" {
		if in.Purchase.Price, err = strconv.ParseFloat(p, 64); err != nil || in.Purchase.Price < 0 {
			return domain.Invalid("purchase_price must be a non-negative number")
		}
	}
	archived := false
	if a := rec.get("archived"); a != "" {
		if archived, err = strconv.ParseBool(a); err != nil {
			return domain.Invalid("archived must be true or false")
		}
	}

	if in.LocationID, err = res.location(ctx, rec.get("location")); err != nil {
		return err
	}
	if in.CategoryID, err = res.category(ctx, rec.get("category")); err != nil {
		return err
	}
	for _, name := range strings.Split(rec.get("labels"), labelSeparator) {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		id, err := res.label(ctx, name)
		if err != nil {
			return err
		}
		in.LabelIDs = append(in.LabelIDs, id)
	}

	item, err := s.items.Create(ctx, actor, in)
	if err != nil {
		return err
	}
	if archived {
		if _, err := s.items.SetArchived(ctx, actor, item.ID, true); err != nil {
			return fmt.Errorf("archive: %w", err)
		}
	}
	return nil
}

// rowMessage keeps business errors readable and hides internal ones.
func rowMessage(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, domain.ErrPlanLimit), errors.Is(err, csv.ErrFieldCount), errors.Is(err, csv.ErrQuote):
		return err.Error()
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return "could not save row"
}

type csvRow struct {
	cols   map[string]int
	values []string
}

func (r csvRow) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// resolver maps names from the file to IDs, creating what is missing.
type resolver struct {
	s          *TransferService
	groupID    string
	locations  []domain.Location
	tree       *domain.LocationTree
	categories map[string]string
	labels     map[string]string
}

func (s *TransferService) newResolver(ctx context.Context, groupID string) (*resolver, error) {
	locs, err := s.locations.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("import: load locations: %w", err)
	}
	cats, err := s.categories.List(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("import: load categories: %w", err)
	}
	labels, err := s.labels.List(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("import: load labels: %w", err)
	}

	res := &resolver{
		s:          s,
		groupID:    groupID,
		locations:  locs,
		tree:       domain.NewLocationTree(locs),
		categories: make(map[string]string, len(cats)),
		labels:     make(map[string]string, len(labels)),
	}
	for _, c := range cats {
		res.categories[strings.ToLower(c.Name)] = c.ID
	}
	for _, l := range labels {
		res.labels[strings.ToLower(l.Name)] = l.ID
	}
	return res, nil
}

func (r *resolver) location(ctx context.Context, path string) (string, error) {
	names := domain.SplitPath(path)
	if len(names) == 0 {
		names = []string{fallbackLocation}
	}

	parent := ""
	for i := range names {
		if loc, ok := r.tree.FindByPath(names[:i+1]); ok {
			parent = loc.ID
			continue
		}
		now := time.Now().UTC()
		loc := &domain.Location{
			GroupID:   r.groupID,
			Name:      names[i],
			ParentID:  parent,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.s.locations.Create(ctx, loc); err != nil {
			return "", fmt.Errorf("create location %q: %w", names[i], err)
		}
		r.locations = append(r.locations, *loc)
		r.tree = domain.NewLocationTree(r.locations)
		parent = loc.ID
	}
	return parent, nil
}

func (r *resolver) category(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = fallbackCategory
	}
	if id, ok := r.categories[strings.ToLower(name)]; ok {
		return id, nil
	}
	now := time.Now().UTC()
	c := &domain.Category{GroupID: r.groupID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := r.s.categories.Create(ctx, c); err != nil {
		return "", fmt.Errorf("create category %q: %w", name, err)
	}
	r.categories[strings.ToLower(name)] = c.ID
	return c.ID, nil
}

func (r *resolver) label(ctx context.Context, name string) (string, error) {
	if id, ok := r.labels[strings.ToLower(name)]; ok {
		return id, nil
	}
	now := time.Now().UTC()
	l := &domain.Label{GroupID: r.groupID, Name: name, Color: domain.DefaultLabelColor, CreatedAt: now, UpdatedAt: now}
	if err := r.s.labels.Create(ctx, l); err != nil {
		return "", fmt.Errorf("create label %q: %w", name, err)
	}
	r.labels[strings.ToLower(name)] = l.ID
	return l.ID, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(csvDateLayout)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(csvDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatPrice(p float64) string {
	if p == 0 {
		return ""
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}

package query_test

import (
	"testing"

	"github.com/tendline/tendline/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "contacts", "c").
		Project("id", "id").
		Project("email", "email").
		Project("next_engagement_date", "nextEngagementDate")
}

func ptr(s string) *string { return &s }

func TestProjectionMapFrom(t *testing.T) {
	p := testProjection()
	got := p.From()
	want := "public.contacts c"
	if got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "c" {
		t.Errorf("Alias() = %q, want %q", got, "c")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "c.id, c.email, c.next_engagement_date"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnList(t *testing.T) {
	p := testProjection()
	got := p.ColumnList()
	if len(got) != 3 {
		t.Fatalf("ColumnList() length = %d, want 3", len(got))
	}
	want := []string{"c.id", "c.email", "c.next_engagement_date"}
	for i, col := range got {
		if col != want[i] {
			t.Errorf("ColumnList()[%d] = %q, want %q", i, col, want[i])
		}
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "email", "c.email"},
		{"mapped camel", "nextEngagementDate", "c.next_engagement_date"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "email",
			want:  []query.SortField{{Field: "email", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-nextEngagementDate",
			want:  []query.SortField{{Field: "nextEngagementDate", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "email,-nextEngagementDate",
			want: []query.SortField{
				{Field: "email", Descending: false},
				{Field: "nextEngagementDate", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " email , -nextEngagementDate ",
			want: []query.SortField{
				{Field: "email", Descending: false},
				{Field: "nextEngagementDate", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "email,,id",
			want: []query.SortField{
				{Field: "email", Descending: false},
				{Field: "id", Descending: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseSortFields(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
}

func TestProjectionMapFilter(t *testing.T) {
	p := testProjection().Filter("do_not_contact", "doNotContact")

	if got := p.Column("doNotContact"); got != "c.do_not_contact" {
		t.Errorf("Column() = %q, want %q", got, "c.do_not_contact")
	}
	if got := p.Columns(); got != "c.id, c.email, c.next_engagement_date" {
		t.Errorf("filtered column leaked into select list: %q", got)
	}
}

func TestBuilderWhereOnFilteredColumn(t *testing.T) {
	p := testProjection().Filter("do_not_contact", "doNotContact")
	b := query.NewBuilder(p).WhereEquals("doNotContact", false)
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date " +
		"FROM public.contacts c WHERE c.do_not_contact = $1"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != false {
		t.Errorf("Build() args = %v, want [false]", args)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.contacts c"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "nextEngagementDate", Descending: true})
	sql, args := b.BuildPage(2, 10)

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c ORDER BY c.next_engagement_date DESC LIMIT 10 OFFSET 10"
	if sql != wantSQL {
		t.Errorf("BuildPage() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildPage() args = %v, want empty", args)
	}
}

func TestBuilderBuildLimited(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "nextEngagementDate"})
	b.WhereNotNull("nextEngagementDate")
	sql, args := b.BuildLimited(50)

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c WHERE c.next_engagement_date IS NOT NULL ORDER BY c.next_engagement_date ASC LIMIT 50"
	if sql != wantSQL {
		t.Errorf("BuildLimited() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildLimited() args = %v, want empty", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.BuildSingle("id", "abc-123")

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c WHERE c.id = $1"
	if sql != wantSQL {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("email", "ada@example.com")
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c WHERE c.email = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "ada@example.com" {
		t.Errorf("args = %v, want [ada@example.com]", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("email", nil)
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContains(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereContains("email", ptr("example"))
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c WHERE c.email ILIKE $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%example%" {
		t.Errorf("args = %v, want [%%example%%]", args)
	}
}

func TestBuilderWhereContainsNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereContains("email", nil)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContainsEmptySkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereContains("email", ptr(""))
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereRange(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereGte("nextEngagementDate", "2024-02-01")
	b.WhereLte("nextEngagementDate", "2024-02-29")
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c WHERE c.next_engagement_date >= $1 AND c.next_engagement_date <= $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "2024-02-01" || args[1] != "2024-02-29" {
		t.Errorf("args = %v, want [2024-02-01 2024-02-29]", args)
	}
}

func TestBuilderWhereRangeNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereGte("nextEngagementDate", nil)
	b.WhereLte("nextEngagementDate", nil)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereSearch(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereSearch(ptr("ada"), "email", "id")
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c WHERE (c.email ILIKE $1 OR c.id ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "%ada%" || args[1] != "%ada%" {
		t.Errorf("args = %v, want [%%ada%% %%ada%%]", args)
	}
}

func TestBuilderWhereSearchNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereSearch(nil, "email")
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("email", "ada@example.com")
	b.WhereContains("id", ptr("abc"))
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c WHERE c.email = $1 AND c.id ILIKE $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 {
		t.Errorf("args length = %d, want 2", len(args))
	}
	if args[0] != "ada@example.com" {
		t.Errorf("args[0] = %v, want ada@example.com", args[0])
	}
	if args[1] != "%abc%" {
		t.Errorf("args[1] = %v, want %%abc%%", args[1])
	}
}

func TestBuilderOrderByFields(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "id", Descending: false})
	b.OrderByFields([]query.SortField{
		{Field: "nextEngagementDate", Descending: true},
		{Field: "email", Descending: false},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c ORDER BY c.next_engagement_date DESC, c.email ASC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderDefaultSort(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "nextEngagementDate", Descending: true})
	sql, _ := b.Build()

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c ORDER BY c.next_engagement_date DESC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderBuildCountWithConditions(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("email", "ada@example.com")
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.contacts c WHERE c.email = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "ada@example.com" {
		t.Errorf("args = %v, want [ada@example.com]", args)
	}
}

func TestBuilderBuildPageWithConditions(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "id"})
	b.WhereContains("email", ptr("example"))
	sql, args := b.BuildPage(3, 25)

	wantSQL := "SELECT c.id, c.email, c.next_engagement_date FROM public.contacts c WHERE c.email ILIKE $1 ORDER BY c.id ASC LIMIT 25 OFFSET 50"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%example%" {
		t.Errorf("args = %v, want [%%example%%]", args)
	}
}

package synthesis

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"medley/internal/source"
	"medley/internal/xref"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestSynthesizeMovieBindingWins(t *testing.T) {
	aired := timePtr(time.Date(2021, 7, 2, 0, 0, 0, 0, time.UTC))
	syn := New(Options{Locale: "en", TagsFromKeywords: true, GenresFromGenres: true})

	entity := syn.Synthesize(Input{
		ID: "item-1",
		Native: NativeRecord{
			ID:             "native-10",
			RuntimeMinutes: 25,
			Rating:         7.1,
			AiredAt:        timePtr(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
			Titles:         []source.Title{{Value: "Gekijouban", Language: "ja", Type: "official", Default: true}},
		},
		Movie: &source.Movie{
			ID:                  "movie-55",
			Title:               "The Movie",
			RuntimeMinutes:      118,
			AiredAt:             aired,
			Rating:              8.4,
			Studios:             []string{"Big Studio"},
			ProductionCountries: []string{"Japan"},
			Keywords:            []string{"time travel"},
			Genres:              []string{"Drama"},
			Cast: []source.Role{
				{Type: "Director", Staff: source.Staff{Name: "A. Director", ProviderID: "p1"}},
			},
		},
	})

	if entity.RuntimeMinutes != 118 {
		t.Fatalf("runtime = %d, want movie runtime 118", entity.RuntimeMinutes)
	}
	if !entity.AiredAt.Equal(*aired) {
		t.Fatalf("aired = %v, want movie air date %v", entity.AiredAt, aired)
	}
	if entity.CommunityRating != 8.4 {
		t.Fatalf("rating = %v, want movie rating 8.4", entity.CommunityRating)
	}
	if diff := cmp.Diff([]string{"Big Studio"}, entity.Studios); diff != "" {
		t.Fatalf("studios mismatch (-want +got):\n%s", diff)
	}
	if got := entity.ProductionLocations[source.SchemeParent]; len(got) != 1 || got[0] != "Japan" {
		t.Fatalf("production locations = %v, want [Japan]", got)
	}
	if len(entity.Staff) != 1 || entity.Staff[0].Kind != PersonDirector {
		t.Fatalf("staff = %+v, want single director from movie cast", entity.Staff)
	}
	if entity.ExternalIDs[source.SchemeParent] != "movie-55" {
		t.Fatalf("parent external id = %q, want movie-55", entity.ExternalIDs[source.SchemeParent])
	}
}

func TestSynthesizeMovieRuntimeFallsBackToNative(t *testing.T) {
	syn := New(Options{Locale: "en"})

	entity := syn.Synthesize(Input{
		Native: NativeRecord{RuntimeMinutes: 93},
		Movie:  &source.Movie{ID: "movie-1"},
	})

	if entity.RuntimeMinutes != 93 {
		t.Fatalf("runtime = %d, want native fallback 93", entity.RuntimeMinutes)
	}
	// Air date and community rating never fall back to the native record
	// when a movie is bound.
	if entity.AiredAt != nil {
		t.Fatalf("aired = %v, want nil", entity.AiredAt)
	}
	if entity.CommunityRating != 0 {
		t.Fatalf("rating = %v, want 0", entity.CommunityRating)
	}
}

func TestSynthesizeParentEpisodeInheritsFromShow(t *testing.T) {
	syn := New(Options{Locale: "en", GenresFromGenres: true})

	entity := syn.Synthesize(Input{
		Native: NativeRecord{
			Roles: []source.Role{
				{Type: "Animation Work", Staff: source.Staff{Name: "Native Studio"}},
			},
		},
		ParentEpisode: &source.ParentEpisode{
			ID:             "ep-9",
			RuntimeMinutes: 24,
			Cast: []source.Role{
				{Type: "Guest Star", Staff: source.Staff{Name: "V. Actor", ProviderID: "a1"}, Character: "Hero"},
			},
		},
		ParentShow: &source.Show{
			Studios:             []string{"Show Studio"},
			ProductionCountries: []string{"United States"},
			Genres:              []string{"Comedy"},
			ContentRatings: []source.ContentRating{
				{Rating: "TV-14", Country: "us", Language: "en"},
			},
		},
	})

	if diff := cmp.Diff([]string{"Show Studio"}, entity.Studios); diff != "" {
		t.Fatalf("studios mismatch (-want +got):\n%s", diff)
	}
	if got := entity.ProductionLocations[source.SchemeParent]; len(got) != 1 || got[0] != "United States" {
		t.Fatalf("production locations = %v, want show countries", got)
	}
	if diff := cmp.Diff([]string{"Comedy"}, entity.Genres); diff != "" {
		t.Fatalf("genres mismatch (-want +got):\n%s", diff)
	}
	want := []ContentRating{{Rating: "TV-14", Country: "us", Language: "en", Source: source.SchemeParent}}
	if diff := cmp.Diff(want, entity.ContentRatings); diff != "" {
		t.Fatalf("content ratings mismatch (-want +got):\n%s", diff)
	}
	if len(entity.Staff) != 1 || entity.Staff[0].Name != "V. Actor" {
		t.Fatalf("staff = %+v, want episode cast", entity.Staff)
	}
}

func TestSynthesizeNativeOnly(t *testing.T) {
	syn := New(Options{Locale: "en"})

	entity := syn.Synthesize(Input{
		Native: NativeRecord{
			RuntimeMinutes: 24,
			Rating:         7.9,
			Roles: []source.Role{
				{Type: "Studio", Staff: source.Staff{Name: "Animation House"}},
				{Type: "Direction", Staff: source.Staff{Name: "B. Director", ProviderID: "d1"}},
			},
		},
	})

	if entity.RuntimeMinutes != 24 || entity.CommunityRating != 7.9 {
		t.Fatalf("facts = (%d, %v), want native values", entity.RuntimeMinutes, entity.CommunityRating)
	}
	if diff := cmp.Diff([]string{"Animation House"}, entity.Studios); diff != "" {
		t.Fatalf("studios mismatch (-want +got):\n%s", diff)
	}
	if len(entity.Staff) != 1 || entity.Staff[0].Kind != PersonDirector {
		t.Fatalf("staff = %+v, want single director, studio role excluded", entity.Staff)
	}
}

func TestSynthesizeOverviewSanitizedOnlyForNativeText(t *testing.T) {
	raw := "A story about time.\nhttp://example.com/site [Example] has more.\n\n* Adapted from the novel."
	syn := New(Options{Locale: "en", SanitizeDescriptions: true})

	t.Run("preferred equals native", func(t *testing.T) {
		entity := syn.Synthesize(Input{
			Native:            NativeRecord{Description: raw},
			PreferredOverview: raw,
		})
		want := "A story about time.\nExample has more."
		if entity.Overview != want {
			t.Fatalf("overview = %q, want sanitized %q", entity.Overview, want)
		}
		if len(entity.Overviews) != 1 || entity.Overviews[0].Source != source.SchemeNative || !entity.Overviews[0].Preferred {
			t.Fatalf("overviews = %+v, want single preferred native entry", entity.Overviews)
		}
	})

	t.Run("preferred differs from native", func(t *testing.T) {
		entity := syn.Synthesize(Input{
			Native:            NativeRecord{Description: raw},
			PreferredOverview: "Curated overview.",
		})
		if entity.Overview != "Curated overview." {
			t.Fatalf("overview = %q, want preferred text unchanged", entity.Overview)
		}
		for _, o := range entity.Overviews {
			if o.Source == source.SchemeNative {
				t.Fatalf("overviews = %+v, want no native entry", entity.Overviews)
			}
		}
	})
}

func TestSynthesizeContentRatingDedup(t *testing.T) {
	override := &ContentRating{Rating: "PG-13", Country: "us", Language: "en", Source: source.SchemeParent}
	syn := New(Options{Locale: "en"})

	entity := syn.Synthesize(Input{
		Movie: &source.Movie{
			ID: "m1",
			ContentRatings: []source.ContentRating{
				{Rating: "PG-13", Country: "us", Language: "en"},
				{Rating: "PG-13", Country: "us", Language: "en"},
				{Rating: "12", Country: "de", Language: "de"},
			},
		},
		RatingOverride: override,
	})

	want := []ContentRating{
		{Rating: "PG-13", Country: "us", Language: "en", Source: source.SchemeParent},
		{Rating: "12", Country: "de", Language: "de", Source: source.SchemeParent},
	}
	if diff := cmp.Diff(want, entity.ContentRatings); diff != "" {
		t.Fatalf("ratings mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeTagGenreGating(t *testing.T) {
	movie := &source.Movie{
		ID:       "m1",
		Keywords: []string{"mecha", "space"},
		Genres:   []string{"Action", "mecha"},
	}

	tests := []struct {
		name       string
		opts       Options
		wantTags   []string
		wantGenres []string
	}{
		{
			name:       "defaults",
			opts:       Options{TagsFromKeywords: true, GenresFromGenres: true},
			wantTags:   []string{"mecha", "space"},
			wantGenres: []string{"Action", "mecha"},
		},
		{
			name:       "everything into genres",
			opts:       Options{GenresFromKeywords: true, GenresFromGenres: true},
			wantTags:   nil,
			wantGenres: []string{"mecha", "space", "Action"},
		},
		{
			name:       "all off",
			opts:       Options{},
			wantTags:   nil,
			wantGenres: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity := New(tt.opts).Synthesize(Input{Movie: movie})
			if diff := cmp.Diff(tt.wantTags, entity.Tags); diff != "" {
				t.Errorf("tags mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantGenres, entity.Genres); diff != "" {
				t.Errorf("genres mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSynthesizeTitleLocaleSelection(t *testing.T) {
	titles := []source.Title{
		{Value: "Shingeki", Language: "ja", Type: "official", Default: true},
		{Value: "Attack", Language: "en", Type: "official"},
		{Value: "L'Attaque", Language: "fr", Type: "official"},
	}

	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{name: "english locale picks english variant", locale: "en", want: "Attack"},
		{name: "french locale picks french variant", locale: "fr", want: "L'Attaque"},
		{name: "japanese locale picks default", locale: "ja", want: "Shingeki"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity := New(Options{Locale: tt.locale}).Synthesize(Input{
				Native: NativeRecord{Titles: titles},
			})
			if entity.Title != tt.want {
				t.Fatalf("title = %q, want %q", entity.Title, tt.want)
			}
		})
	}
}

func TestSynthesizePreferredTitleOverride(t *testing.T) {
	entity := New(Options{Locale: "en"}).Synthesize(Input{
		PreferredTitle: "Curated Title",
		Native: NativeRecord{
			Titles: []source.Title{{Value: "Native Title", Language: "en", Default: true}},
		},
	})
	if entity.Title != "Curated Title" {
		t.Fatalf("title = %q, want explicit preferred title", entity.Title)
	}
	if entity.OriginalLanguage != "en" {
		t.Fatalf("original language = %q, want en from default title", entity.OriginalLanguage)
	}
}

func TestSynthesizeStaffGroupsCharacters(t *testing.T) {
	roles := []source.Role{
		{Type: "Voice Actor", Staff: source.Staff{Name: "Same Actor", ProviderID: "va1"}, Character: "Zeta"},
		{Type: "Voice Actor", Staff: source.Staff{Name: "Same Actor", ProviderID: "va1"}, Character: "Alpha"},
		{Type: "Voice Actor", Staff: source.Staff{Name: "Same Actor", ProviderID: "va1"}, Character: "Alpha"},
		{Type: "Music", Staff: source.Staff{Name: "Same Actor", ProviderID: "va1"}},
		{Type: "Unknown Credit", Staff: source.Staff{Name: "Dropped"}},
	}

	entries := SynthesizeStaff(roles)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (actor group + composer)", len(entries))
	}
	if entries[0].Kind != PersonActor || entries[0].Role != "Alpha / Zeta" {
		t.Fatalf("actor entry = %+v, want sorted joined characters", entries[0])
	}
	if entries[1].Kind != PersonComposer {
		t.Fatalf("second entry = %+v, want composer", entries[1])
	}
}

func TestIsAvailable(t *testing.T) {
	var nilEntity *EntityInfo
	if nilEntity.IsAvailable() {
		t.Fatal("nil entity reported available")
	}
	empty := &EntityInfo{}
	if empty.IsAvailable() {
		t.Fatal("entity without cross-references reported available")
	}
	withRef := &EntityInfo{CrossReferences: []xref.CrossReference{{Hash: "abc"}}}
	if !withRef.IsAvailable() {
		t.Fatal("entity with cross-reference reported unavailable")
	}
}

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "link markup collapses to display text",
			in:   "See http://anidb.net/ch123 [Protagonist] for details.",
			want: "See Protagonist for details.",
		},
		{
			name: "bare links dropped",
			in:   "Based on a manga. https://example.org/manga",
			want: "Based on a manga.",
		},
		{
			name: "attribution line removed",
			in:   "A fine story.\n— written by reviewer99",
			want: "A fine story.",
		},
		{
			name: "footnote bullets removed",
			in:   "Main plot.\n\n* This entry combines two releases.\nNote: airing order differs.",
			want: "Main plot.",
		},
		{
			name: "empty stays empty",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeDescription(tt.in); got != tt.want {
				t.Fatalf("SanitizeDescription(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

package curator

import (
	"reflect"
	"testing"
)

func TestParseKeypoints_Numbered(t *testing.T) {
	got := ParseKeypoints("1. First point 2. Second point 3. Third point")
	want := []string{"First point", "Second point", "Third point"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseKeypoints_NumberedLines(t *testing.T) {
	got := ParseKeypoints("1. First point\n2. Second point")
	want := []string{"First point", "Second point"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseKeypoints_Bullets(t *testing.T) {
	got := ParseKeypoints("- uses a queue - drops duplicates")
	want := []string{"uses a queue", "drops duplicates"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseKeypoints_FormattedLines(t *testing.T) {
	got := ParseKeypoints("* fast startup\n* small binary\nplain line")
	want := []string{"fast startup", "small binary"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseKeypoints_PlainLines(t *testing.T) {
	got := ParseKeypoints("first thought\nsecond thought")
	want := []string{"first thought", "second thought"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseKeypoints_Sentences(t *testing.T) {
	got := ParseKeypoints("This is the first idea. This is the second idea.")
	want := []string{"This is the first idea", "This is the second idea"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseKeypoints_SentencesSkipShortFragments(t *testing.T) {
	got := ParseKeypoints("Short. ok. This fragment is long enough to keep. So is this one here.")
	for _, kp := range got {
		if len(kp) <= 10 {
			t.Errorf("short fragment kept: %q", kp)
		}
	}
}

func TestParseKeypoints_WholeSummaryFallback(t *testing.T) {
	got := ParseKeypoints("just one blob")
	want := []string{"just one blob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseKeypoints_SingleItemNotEnough(t *testing.T) {
	// One numbered item must not win the numbered format; the text falls
	// through to the sentence split.
	got := ParseKeypoints("1. only one entry here. but a second sentence exists.")
	if len(got) < 2 {
		t.Errorf("single marker should fall through, got %v", got)
	}
}

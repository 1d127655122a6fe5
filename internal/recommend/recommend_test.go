package recommend

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"ac-advisor/internal/capacity"
	"ac-advisor/internal/catalog"
)

func rec(model string, btu int, min, max float64, tier catalog.PriceTier) catalog.EquipmentRecord {
	return catalog.EquipmentRecord{Brand: "B", Model: model, BTU: btu, AreaMin: min, AreaMax: max, Type: "split", PriceTier: tier}
}

func models(rs []catalog.EquipmentRecord) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Model)
	}
	return out
}

func TestRecommend_SingleMatch(t *testing.T) {
	only := rec("M1", 9000, 20, 30, catalog.Budget)
	res, err := Recommend(25, []catalog.EquipmentRecord{only}, capacity.DefaultCoefficient)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if res.Capacity != 9000 || res.MatchCount != 1 || len(res.Presented) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !reflect.DeepEqual(res.Presented[0], only) {
		t.Fatalf("wrong record: %+v", res.Presented[0])
	}
}

func TestRecommend_Validation(t *testing.T) {
	for _, a := range []float64{0, -1, 501, 500.01, math.NaN(), math.Inf(1)} {
		_, err := Recommend(a, nil, capacity.DefaultCoefficient)
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("area %v: want ErrOutOfRange, got %v", a, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Reason != OutOfRange {
			t.Fatalf("area %v: want *ValidationError, got %T", a, err)
		}
	}
	for _, a := range []float64{500, 0.1, 0.0001} {
		if _, err := Recommend(a, nil, capacity.DefaultCoefficient); err != nil {
			t.Fatalf("area %v rejected: %v", a, err)
		}
	}
}

func TestRecommend_FiltersByServiceableArea(t *testing.T) {
	cat := []catalog.EquipmentRecord{
		rec("low", 7000, 10, 19.9, catalog.Budget),
		rec("edge-min", 7000, 20, 25, catalog.Budget),
		rec("edge-max", 9000, 15, 20, catalog.Mid),
		rec("high", 12000, 21, 35, catalog.Budget),
	}
	res, err := Recommend(20, cat, capacity.DefaultCoefficient)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	for _, r := range res.Presented {
		if !(r.AreaMin <= 20 && 20 <= r.AreaMax) {
			t.Fatalf("record %s does not serve 20 m²", r.Model)
		}
	}
	if got := models(res.Presented); !reflect.DeepEqual(got, []string{"edge-min", "edge-max"}) {
		t.Fatalf("got %v", got)
	}
}

func TestRecommend_TierDominatesDistance(t *testing.T) {
	cat := []catalog.EquipmentRecord{
		rec("premium-exact", 9000, 10, 40, catalog.Premium),
		rec("mid-close", 10000, 10, 40, catalog.Mid),
		rec("budget-far", 24000, 10, 40, catalog.Budget),
	}
	res, err := Recommend(25, cat, capacity.DefaultCoefficient)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	want := []string{"budget-far", "mid-close", "premium-exact"}
	if got := models(res.Presented); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRecommend_DistanceThenStableOrder(t *testing.T) {
	cat := []catalog.EquipmentRecord{
		rec("far", 18000, 10, 40, catalog.Mid),
		rec("under-a", 8000, 10, 40, catalog.Mid),
		rec("over-b", 10000, 10, 40, catalog.Mid),
		rec("exact", 9000, 10, 40, catalog.Mid),
		rec("under-c", 8000, 10, 40, catalog.Mid),
	}
	res, err := Recommend(25, cat, capacity.DefaultCoefficient)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	want := []string{"exact", "under-a", "over-b", "under-c", "far"}
	if got := models(res.Presented); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	again, _ := Recommend(25, cat, capacity.DefaultCoefficient)
	if !reflect.DeepEqual(res, again) {
		t.Fatalf("non-deterministic result")
	}
}

func TestRecommend_TruncatesToFive(t *testing.T) {
	var cat []catalog.EquipmentRecord
	for i := 0; i < 12; i++ {
		cat = append(cat, rec(fmt.Sprintf("m%d", i), 9000+i*1000, 10, 40, catalog.Budget))
	}
	res, err := Recommend(25, cat, capacity.DefaultCoefficient)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(res.Presented) != MaxPresented || res.MatchCount != 12 || res.More() != 7 {
		t.Fatalf("presented=%d match=%d more=%d", len(res.Presented), res.MatchCount, res.More())
	}
}

func TestRecommend_EmptyIsNotAnError(t *testing.T) {
	res, err := Recommend(300, []catalog.EquipmentRecord{rec("m", 9000, 20, 30, catalog.Budget)}, capacity.DefaultCoefficient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MatchCount != 0 || len(res.Presented) != 0 || res.Capacity != 102000 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

type staticSource []catalog.EquipmentRecord

func (s staticSource) All() []catalog.EquipmentRecord { return s }

func TestEngine_DefaultsCoefficient(t *testing.T) {
	e := NewEngine(staticSource{rec("m", 9000, 20, 30, catalog.Budget)}, 0)
	res, err := e.Recommend(25)
	if err != nil || res.Capacity != 9000 || res.MatchCount != 1 {
		t.Fatalf("unexpected: %+v %v", res, err)
	}
}

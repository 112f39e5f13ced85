package intent

import (
	"testing"
)

func TestNumericReply(t *testing.T) {
	t.Run("singleNumeral", func(t *testing.T) {
		got, ok := NumericReply("4")
		if !ok || len(got) != 1 || got[0] != 4 {
			t.Errorf("got %v ok=%v, want [4] ok=true", got, ok)
		}
	})
	t.Run("commaList", func(t *testing.T) {
		got, ok := NumericReply("1, 3")
		if !ok || len(got) != 2 || got[0] != 1 || got[1] != 3 {
			t.Errorf("got %v ok=%v, want [1 3] ok=true", got, ok)
		}
	})
	t.Run("spaceSeparated", func(t *testing.T) {
		got, ok := NumericReply("2 5")
		if !ok || len(got) != 2 || got[0] != 2 || got[1] != 5 {
			t.Errorf("got %v ok=%v, want [2 5] ok=true", got, ok)
		}
	})
	t.Run("rejectsText", func(t *testing.T) {
		if _, ok := NumericReply("+expense 200 paper"); ok {
			t.Errorf("text claimed as numeric reply")
		}
	})
	t.Run("rejectsEmpty", func(t *testing.T) {
		if _, ok := NumericReply("   "); ok {
			t.Errorf("blank claimed as numeric reply")
		}
	})
}

func TestParseRecord(t *testing.T) {
	t.Run("expenseWithTag", func(t *testing.T) {
		cmd, ok, err := ParseRecord("+expense 200 printer paper #office")
		if !ok || err != nil {
			t.Fatalf("ok=%v err=%v, want match", ok, err)
		}
		if cmd.Type != "expense" || cmd.Amount != 200 || cmd.Description != "printer paper #office" {
			t.Errorf("got %+v", cmd)
		}
	})
	t.Run("orderIsSaleWithClient", func(t *testing.T) {
		cmd, ok, err := ParseRecord("+order 1500 wedding cake client=Ama")
		if !ok || err != nil {
			t.Fatalf("ok=%v err=%v, want match", ok, err)
		}
		if cmd.Type != "sale" || !cmd.IsOrder || cmd.Client != "Ama" {
			t.Errorf("got %+v, want sale order for client Ama", cmd)
		}
	})
	t.Run("bareVerbWithoutMarker", func(t *testing.T) {
		cmd, ok, err := ParseRecord("sale 500 3 bags of rice")
		if !ok || err != nil || cmd.Type != "sale" {
			t.Errorf("got %+v ok=%v err=%v", cmd, ok, err)
		}
	})
	t.Run("missingAmount", func(t *testing.T) {
		_, ok, err := ParseRecord("+expense")
		if !ok || err == nil {
			t.Errorf("ok=%v err=%v, want claimed with usage error", ok, err)
		}
	})
	t.Run("negativeAmount", func(t *testing.T) {
		_, ok, err := ParseRecord("+expense -5 refund")
		if !ok || err == nil {
			t.Errorf("ok=%v err=%v, want claimed with validation error", ok, err)
		}
	})
	t.Run("otherVerbDeclines", func(t *testing.T) {
		_, ok, _ := ParseRecord("balance")
		if ok {
			t.Errorf("report keyword claimed by record parser")
		}
	})
}

func TestParseTrain(t *testing.T) {
	t.Run("quotedItemWithUnit", func(t *testing.T) {
		cmd, ok, err := ParseTrain(`+train "printer paper" 60 80 ream`)
		if !ok || err != nil {
			t.Fatalf("ok=%v err=%v, want match", ok, err)
		}
		if cmd.Item != "printer paper" || cmd.Min != 60 || cmd.Max != 80 || cmd.Unit != "ream" {
			t.Errorf("got %+v", cmd)
		}
	})
	t.Run("unquotedSingleWord", func(t *testing.T) {
		cmd, ok, err := ParseTrain("train eggs 1 3")
		if !ok || err != nil || cmd.Item != "eggs" || cmd.Min != 1 || cmd.Max != 3 {
			t.Errorf("got %+v ok=%v err=%v", cmd, ok, err)
		}
	})
	t.Run("missingBounds", func(t *testing.T) {
		_, ok, err := ParseTrain(`+train "printer paper" 60`)
		if !ok || err == nil {
			t.Errorf("ok=%v err=%v, want claimed with usage error", ok, err)
		}
	})
}

func TestParseBudget(t *testing.T) {
	t.Run("defaultAlert", func(t *testing.T) {
		cmd, ok, err := ParseBudget("+budget office 1000 monthly")
		if !ok || err != nil {
			t.Fatalf("ok=%v err=%v, want match", ok, err)
		}
		if cmd.Key != "office" || cmd.Amount != 1000 || cmd.Period != "monthly" || cmd.AlertPct != 80 {
			t.Errorf("got %+v", cmd)
		}
	})
	t.Run("tagKeyAndCustomAlert", func(t *testing.T) {
		cmd, ok, err := ParseBudget("+budget #Transport 500 weekly 90%")
		if !ok || err != nil || cmd.Key != "transport" || cmd.AlertPct != 90 {
			t.Errorf("got %+v ok=%v err=%v", cmd, ok, err)
		}
	})
	t.Run("badPeriod", func(t *testing.T) {
		_, ok, err := ParseBudget("+budget office 1000 fortnightly")
		if !ok || err == nil {
			t.Errorf("ok=%v err=%v, want claimed with usage error", ok, err)
		}
	})
}

func TestParseRecurring(t *testing.T) {
	cmd, ok, err := ParseRecurring("+recurring expense 150 monthly shop rent")
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v, want match", ok, err)
	}
	if cmd.Type != "expense" || cmd.Amount != 150 || cmd.Period != "monthly" || cmd.Description != "shop rent" {
		t.Errorf("got %+v", cmd)
	}
}

func TestParseDeletion(t *testing.T) {
	t.Run("bareDeleteListsTargets", func(t *testing.T) {
		cmd, ok := ParseDeletion("delete")
		if !ok || cmd.Target != "list" {
			t.Errorf("got %+v ok=%v, want list", cmd, ok)
		}
	})
	t.Run("deleteLast", func(t *testing.T) {
		cmd, ok := ParseDeletion("delete last")
		if !ok || cmd.Target != "last" {
			t.Errorf("got %+v ok=%v", cmd, ok)
		}
	})
	t.Run("deleteByIDUppercases", func(t *testing.T) {
		cmd, ok := ParseDeletion("delete id:exp-a1b2c3")
		if !ok || cmd.Target != "id" || cmd.ID != "EXP-A1B2C3" {
			t.Errorf("got %+v ok=%v", cmd, ok)
		}
	})
	t.Run("unknownRestFallsBackToList", func(t *testing.T) {
		cmd, ok := ParseDeletion("delete the wrong one")
		if !ok || cmd.Target != "list" {
			t.Errorf("got %+v ok=%v, want list", cmd, ok)
		}
	})
}

func TestParseReport(t *testing.T) {
	t.Run("keywords", func(t *testing.T) {
		for _, kind := range []string{"balance", "today", "week", "month", "categories", "export", "chart"} {
			cmd, ok := ParseReport(kind)
			if !ok || cmd.Kind != kind {
				t.Errorf("%q: got %+v ok=%v", kind, cmd, ok)
			}
		}
	})
	t.Run("slashCommand", func(t *testing.T) {
		cmd, ok := ParseReport("/balance")
		if !ok || cmd.Kind != "balance" {
			t.Errorf("got %+v ok=%v", cmd, ok)
		}
	})
	t.Run("listDefaultsToTen", func(t *testing.T) {
		cmd, ok := ParseReport("list")
		if !ok || cmd.Kind != "list" || cmd.N != 10 {
			t.Errorf("got %+v ok=%v", cmd, ok)
		}
	})
	t.Run("listWithCount", func(t *testing.T) {
		cmd, ok := ParseReport("list 5")
		if !ok || cmd.N != 5 {
			t.Errorf("got %+v ok=%v", cmd, ok)
		}
	})
	t.Run("freeTextDeclines", func(t *testing.T) {
		if _, ok := ParseReport("bought some rice"); ok {
			t.Errorf("free text claimed as report")
		}
	})
}

func TestParsePriceCheck(t *testing.T) {
	t.Run("underscoreForm", func(t *testing.T) {
		item, ok, err := ParsePriceCheck("price_check printer paper")
		if !ok || err != nil || item != "printer paper" {
			t.Errorf("got %q ok=%v err=%v", item, ok, err)
		}
	})
	t.Run("twoWordForm", func(t *testing.T) {
		item, ok, err := ParsePriceCheck("price check eggs")
		if !ok || err != nil || item != "eggs" {
			t.Errorf("got %q ok=%v err=%v", item, ok, err)
		}
	})
	t.Run("priceAloneDeclines", func(t *testing.T) {
		if _, ok, _ := ParsePriceCheck("price of fame"); ok {
			t.Errorf("non-check phrase claimed")
		}
	})
}

func TestGoalParsing(t *testing.T) {
	t.Run("setWithDescription", func(t *testing.T) {
		cmd, ok, err := ParseGoal("+goal 50000 New laptop")
		if !ok || err != nil || cmd.Amount != 50000 || cmd.Description != "New laptop" {
			t.Errorf("got %+v ok=%v err=%v", cmd, ok, err)
		}
	})
	t.Run("bareGoalIsStatus", func(t *testing.T) {
		if _, ok, _ := ParseGoal("goal"); ok {
			t.Errorf("bare goal claimed by setter")
		}
		if !IsGoalStatus("goal") {
			t.Errorf("bare goal not recognized as status request")
		}
	})
}

func TestIsRecordDue(t *testing.T) {
	if !IsRecordDue("record due") {
		t.Errorf("record due not recognized")
	}
	if IsRecordDue("record due tomorrow") {
		t.Errorf("trailing words should decline")
	}
	if IsRecordDue("record") {
		t.Errorf("bare record should decline")
	}
}

func TestExtractCategory(t *testing.T) {
	t.Run("firstTagWins", func(t *testing.T) {
		cat, cleaned := ExtractCategory("printer paper #Office #urgent")
		if cat != "office" {
			t.Errorf("category: got %q, want office", cat)
		}
		if cleaned != "printer paper" {
			t.Errorf("cleaned: got %q, want %q", cleaned, "printer paper")
		}
	})
	t.Run("noTag", func(t *testing.T) {
		cat, cleaned := ExtractCategory("3 bags of rice")
		if cat != "" || cleaned != "3 bags of rice" {
			t.Errorf("got %q %q", cat, cleaned)
		}
	})
}

func TestUnitPrice(t *testing.T) {
	t.Run("leadingQuantity", func(t *testing.T) {
		per, qty, ok := UnitPrice("10 chairs", 500)
		if !ok || per != 50 || qty != 10 {
			t.Errorf("got per=%v qty=%v ok=%v", per, qty, ok)
		}
	})
	t.Run("quantityOfOneCarriesNothing", func(t *testing.T) {
		if _, _, ok := UnitPrice("1 chair", 500); ok {
			t.Errorf("qty 1 should not produce a unit price")
		}
	})
	t.Run("noLeadingNumber", func(t *testing.T) {
		if _, _, ok := UnitPrice("chairs x10", 500); ok {
			t.Errorf("trailing qty should not match")
		}
	})
}

func TestSmalltalk(t *testing.T) {
	t.Run("greetings", func(t *testing.T) {
		for _, text := range []string{"hi", "Hello there", "good morning!"} {
			if !Greeting(text) {
				t.Errorf("%q not recognized as greeting", text)
			}
		}
		if Greeting("highball recipe") {
			t.Errorf("prefix inside word claimed as greeting")
		}
	})
	t.Run("thanks", func(t *testing.T) {
		for _, text := range []string{"thanks!", "Thank you so much", "ty", "ok ty!"} {
			if !Thanks(text) {
				t.Errorf("%q not recognized as thanks", text)
			}
		}
		for _, text := range []string{"twenty chairs", "quality check"} {
			if Thanks(text) {
				t.Errorf("%q wrongly recognized as thanks", text)
			}
		}
	})
	t.Run("naturalBalance", func(t *testing.T) {
		cmd, ok := NaturalReport("what's my balance?")
		if !ok || cmd.Kind != "balance" {
			t.Errorf("got %+v ok=%v", cmd, ok)
		}
	})
	t.Run("transactionPhrasingDeclines", func(t *testing.T) {
		if _, ok := NaturalReport("spent 50 on this week's stock"); ok {
			t.Errorf("transaction phrasing claimed as report")
		}
	})
}

package jobfamily

import "testing"

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title  string
		expect Family
	}{
		{title: "Senior Go Developer", expect: Developer},
		{title: "PROGRAMADOR Java", expect: Developer},
		{title: "Product Designer", expect: Design},
		{title: "Diseñador UX/UI", expect: Design},
		{title: "Especialista en Marketing Digital", expect: Marketing},
		{title: "Sales Manager", expect: Sales},
		{title: "Gerente de Ventas", expect: Sales},
		{title: "Desarrollador Backend", expect: Generic},
		{title: "", expect: Generic},
		// developer keywords outrank design ones
		{title: "Design Systems Developer", expect: Developer},
		// marketing outranks sales
		{title: "Sales and Marketing Lead", expect: Marketing},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			if got := Detect(tt.title); got != tt.expect {
				t.Fatalf("Detect(%q) = %q, want %q", tt.title, got, tt.expect)
			}
		})
	}
}

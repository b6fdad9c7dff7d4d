package detect

import (
	"testing"

	"sift/internal/diag"
)

func TestNavigationFlagsAbsoluteRoutes(t *testing.T) {
	content := `<nav>
  <a href="/about">About</a>
  <Link to="/dashboard/settings">Settings</Link>
  <a href="/">Home</a>
  <a href="#section">Jump</a>
  <a href="https://example.com">Ext</a>
</nav>`
	errs := Navigation("src/components/Nav.tsx", content)
	if len(errs) != 2 {
		t.Fatalf("got %d errors: %+v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Severity != diag.SevLow || e.Code != diag.NavSuspiciousHref {
			t.Fatalf("error = %+v", e)
		}
	}
	if errs[0].Details["target"] != "/about" || errs[1].Details["target"] != "/dashboard/settings" {
		t.Fatalf("targets = %v, %v", errs[0].Details["target"], errs[1].Details["target"])
	}
}

func TestNavigationBracedExpression(t *testing.T) {
	content := `<Link href={"/pricing"}>Pricing</Link>`
	errs := Navigation("src/Nav.tsx", content)
	if len(errs) != 1 {
		t.Fatalf("got %d errors: %+v", len(errs), errs)
	}
}

package vocab

import "strings"

// The two namespace prefixes that legitimize an element type tag.
const (
	NamespaceEssential  = `EssentialElements`
	NamespaceBreakdance = `Breakdance`
)

// knownTypes is the closed vocabulary of element type tags the renderer
// accepts. Order is stable; suggestion ranking depends on it only for
// tie-breaks, which fall back to name order anyway.
var knownTypes = []string{
	NamespaceEssential + `\Section`,
	NamespaceEssential + `\Container`,
	NamespaceEssential + `\Div`,
	NamespaceEssential + `\Columns`,
	NamespaceEssential + `\Column`,
	NamespaceEssential + `\Heading`,
	NamespaceEssential + `\Text`,
	NamespaceEssential + `\TextLink`,
	NamespaceEssential + `\RichText`,
	NamespaceEssential + `\Button`,
	NamespaceEssential + `\Image`,
	NamespaceEssential + `\Icon`,
	NamespaceEssential + `\IconBox`,
	NamespaceEssential + `\IconList`,
	NamespaceEssential + `\Video`,
	NamespaceEssential + `\Audio`,
	NamespaceEssential + `\Gallery`,
	NamespaceEssential + `\ImageCarousel`,
	NamespaceEssential + `\Slider`,
	NamespaceEssential + `\Slide`,
	NamespaceEssential + `\Accordion`,
	NamespaceEssential + `\Tabs`,
	NamespaceEssential + `\Tab`,
	NamespaceEssential + `\List`,
	NamespaceEssential + `\ListItem`,
	NamespaceEssential + `\Spacer`,
	NamespaceEssential + `\Divider`,
	NamespaceEssential + `\Map`,
	NamespaceEssential + `\HtmlCode`,
	NamespaceEssential + `\CodeBlock`,
	NamespaceEssential + `\Shortcode`,
	NamespaceEssential + `\Menu`,
	NamespaceEssential + `\MenuBuilder`,
	NamespaceEssential + `\DropdownMenu`,
	NamespaceEssential + `\Form`,
	NamespaceEssential + `\FormBuilder`,
	NamespaceEssential + `\Counter`,
	NamespaceEssential + `\CountdownTimer`,
	NamespaceEssential + `\ProgressBar`,
	NamespaceEssential + `\StarRating`,
	NamespaceEssential + `\Testimonial`,
	NamespaceEssential + `\PricingTable`,
	NamespaceEssential + `\TeamMember`,
	NamespaceEssential + `\SocialIcons`,
	NamespaceEssential + `\Lottie`,
	NamespaceEssential + `\Popup`,
	NamespaceEssential + `\PostTitle`,
	NamespaceEssential + `\PostContent`,
	NamespaceEssential + `\PostExcerpt`,
	NamespaceEssential + `\PostFeaturedImage`,
	NamespaceEssential + `\PostMeta`,
	NamespaceEssential + `\PostsList`,
	NamespaceEssential + `\Breadcrumbs`,
	NamespaceEssential + `\SearchForm`,
	NamespaceEssential + `\SiteLogo`,
	NamespaceEssential + `\BackToTop`,
	NamespaceBreakdance + `\GlobalBlock`,
	NamespaceBreakdance + `\Header`,
	NamespaceBreakdance + `\Footer`,
	NamespaceBreakdance + `\LoopBuilder`,
	NamespaceBreakdance + `\ProductTitle`,
	NamespaceBreakdance + `\ProductPrice`,
	NamespaceBreakdance + `\ProductImages`,
	NamespaceBreakdance + `\ProductAddToCart`,
	NamespaceBreakdance + `\ProductTabs`,
	NamespaceBreakdance + `\CartItems`,
	NamespaceBreakdance + `\CheckoutForm`,
	NamespaceBreakdance + `\MiniCart`,
}

var (
	knownSet    map[string]bool
	byShortName map[string]string
)

func init() {
	knownSet = make(map[string]bool, len(knownTypes))
	byShortName = make(map[string]string, len(knownTypes))
	for _, full := range knownTypes {
		knownSet[full] = true
		short := strings.ToLower(ShortName(full))
		if _, taken := byShortName[short]; !taken {
			byShortName[short] = full
		}
	}
}

// KnownTypes returns the vocabulary in stable order.
func KnownTypes() []string {
	out := make([]string, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// IsKnownType reports exact membership, namespace and case included.
func IsKnownType(t string) bool {
	return knownSet[t]
}

// HasKnownNamespace reports whether the tag carries one of the two
// accepted namespace prefixes.
func HasKnownNamespace(t string) bool {
	return strings.HasPrefix(t, NamespaceEssential+`\`) ||
		strings.HasPrefix(t, NamespaceBreakdance+`\`)
}

// ShortName strips the namespace from a tag: "EssentialElements\Heading"
// becomes "Heading". Tags without a namespace come back unchanged.
func ShortName(t string) string {
	if idx := strings.LastIndex(t, `\`); idx >= 0 {
		return t[idx+1:]
	}
	return t
}

// ByShortName resolves an unprefixed tag case-insensitively against the
// vocabulary's short names ("heading" -> "EssentialElements\Heading").
func ByShortName(t string) (string, bool) {
	full, ok := byShortName[strings.ToLower(t)]
	return full, ok
}

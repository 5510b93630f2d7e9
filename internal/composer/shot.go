package composer

var (
	productShots = [4]string{
		"Hero product shot where the product is the clear main subject of the frame.",
		"Medium close up focusing on the product with the background gently blurred.",
		"Detail shot highlighting texture, materials, stitching, or key functional elements of the product.",
		"Lifestyle product shot where the environment supports the story but the product is still the star.",
	}

	nonHumanShots = [4]string{
		"Wide environmental shot focused on the overall scene.",
		"Medium wide shot showing the main objects and environment.",
		"Close up detail shot emphasizing textures, edges, and materials.",
		"Cinematic composition with leading lines and depth of field.",
	}

	humanShots = [4]string{
		"Dynamic action shot capturing movement.",
		"Medium portrait style shot from the waist up.",
		"Candid lifestyle shot with a natural pose, not overly staged.",
		"Close up shot that includes part of the athlete and their gear.",
	}
)

// SelectShotHint picks a framing instruction. The pool depends on the
// classification and the slot rotates with postsSoFar, period 4.
func SelectShotHint(isProductFocus bool, c Classification, postsSoFar int) string {
	i := rotate(postsSoFar, 4)

	switch {
	case isProductFocus:
		return productShots[i]
	case !c.ImpliesHuman || c.ExplicitNoHuman:
		return nonHumanShots[i]
	default:
		return humanShots[i]
	}
}

// rotate is n mod size, kept non-negative for bad counts.
func rotate(n, size int) int {
	i := n % size
	if i < 0 {
		i += size
	}
	return i
}

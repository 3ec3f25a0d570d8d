package query

// Block discriminators the home document declares deep relations for.
const (
	HeroSection         = "blocks.hero-section"
	AboutSection        = "blocks.about-section"
	ProjectsSection     = "blocks.projects-section"
	TechnologiesSection = "blocks.technologies-section"
	ContactSection      = "blocks.contact-section"
)

var allFields = []string{"*"}

// Home declares, per block variant, which nested relations the home
// document expands. Variants not listed here come back with their shallow
// fields only.
func Home() Values {
	return Flatten(O(
		F("populate", O(
			F("blocks", O(
				F("on", O(
					F(HeroSection, O(
						F("populate", O(
							F("subtextWords", O(F("fields", allFields))),
						)),
					)),
					F(AboutSection, O(
						F("populate", O(
							F("profileImage", O(F("fields", allFields))),
						)),
					)),
					F(ProjectsSection, O(
						F("populate", O(
							F("fields", allFields),
							F("projectCards", O(
								F("fields", allFields),
								F("populate", O(
									F("projectImage", O(F("fields", allFields))),
									F("technologies", O(F("fields", allFields))),
									F("githubLink", O(F("fields", allFields))),
									F("projectLink", O(F("fields", allFields))),
								)),
							)),
						)),
					)),
					F(TechnologiesSection, O(
						F("populate", O(
							F("technologyCards", O(
								F("fields", allFields),
								F("populate", O(
									F("technologies", O(F("fields", allFields))),
								)),
							)),
						)),
					)),
					F(ContactSection, O(
						F("populate", O(
							F("fields", allFields),
						)),
					)),
				)),
			)),
		)),
	))
}

// Header expands the logo media and the navigation links.
func Header() Values {
	return Flatten(O(
		F("populate", O(
			F("logo", O(F("populate", "*"))),
			F("navLinks", "*"),
		)),
	))
}

// PopulateAll expands every first-level relation.
func PopulateAll() Values {
	return Values{}.Add("populate", "*")
}

// Sorted orders a collection, e.g. Sorted("order:asc").
func Sorted(spec string) Values {
	return Values{}.Add("sort", spec)
}

// Featured filters a collection to entries flagged as featured.
func Featured() Values {
	return Flatten(O(
		F("filters", O(
			F("featured", O(F("$eq", true))),
		)),
	))
}

package pets

import "time"

func seedDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t.UTC()
}

// demoPets son las mascotas iniciales del catálogo, publicadas por refugios.
func demoPets() []Pet {
	return []Pet{
		{
			ID:          "1",
			OwnerID:     SystemOwnerID,
			OwnerEmail:  "refugio@madrid.com",
			OwnerName:   "Refugio Madrid",
			Name:        "Max",
			Breed:       "Golden Retriever",
			Age:         Age{Value: 2, Unit: AgeYears},
			Description: "Un perro muy cariñoso y juguetón. Le encanta correr en el parque y jugar con niños.",
			Location:    "Madrid, España",
			Gender:      GenderMale,
			Color:       "Dorado",
			Weight:      "25kg",
			Images: []string{
				"https://images.unsplash.com/photo-1552053831-71594a27632d?w=400",
			},
			Vaccinated:      true,
			Sterilized:      true,
			MedicalInfo:     "Vacunas al día, revisión veterinaria reciente",
			PersonalityTags: []string{"Cariñoso", "Juguetón", "Activo"},
			AdoptionStatus:  StatusAvailable,
			IsActive:        true,
			DateAdded:       seedDate("2024-01-15"),
		},
		{
			ID:          "2",
			OwnerID:     SystemOwnerID,
			OwnerEmail:  "protectora@barcelona.com",
			OwnerName:   "Protectora Barcelona",
			Name:        "Luna",
			Breed:       "Gato Persa",
			Age:         Age{Value: 1, Unit: AgeYears},
			Description: "Una gatita muy tranquila y dulce. Perfecta para apartamentos pequeños.",
			Location:    "Barcelona, España",
			Gender:      GenderFemale,
			Color:       "Blanco y gris",
			Weight:      "3kg",
			Images: []string{
				"https://images.unsplash.com/photo-1574144611937-0df059b5ef3e?w=400",
			},
			Vaccinated:      true,
			Sterilized:      false,
			MedicalInfo:     "Vacunas completas, pendiente esterilización",
			PersonalityTags: []string{"Tranquila", "Dulce", "Independiente"},
			AdoptionStatus:  StatusAvailable,
			IsActive:        true,
			DateAdded:       seedDate("2024-02-10"),
		},
		{
			ID:          "3",
			OwnerID:     SystemOwnerID,
			OwnerEmail:  "refugio@valencia.com",
			OwnerName:   "Refugio Valencia",
			Name:        "Rex",
			Breed:       "Pastor Alemán",
			Age:         Age{Value: 3, Unit: AgeYears},
			Description: "Muy inteligente y leal. Ideal para familias con experiencia con perros grandes.",
			Location:    "Valencia, España",
			Gender:      GenderMale,
			Color:       "Negro y marrón",
			Weight:      "35kg",
			Images: []string{
				"https://images.unsplash.com/photo-1589941013453-ec89f33b5e95?w=400",
			},
			Vaccinated:      true,
			Sterilized:      true,
			MedicalInfo:     "Excelente estado de salud, entrenado básico",
			PersonalityTags: []string{"Inteligente", "Leal", "Protector"},
			AdoptionStatus:  StatusAvailable,
			IsActive:        true,
			DateAdded:       seedDate("2024-01-20"),
		},
	}
}

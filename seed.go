package main

import (
	"log"

	"conduct-server-go/roster"
)

// checkAndSeedData adds demo classes when the store holds nothing yet
func checkAndSeedData(store *roster.Store) {
	if !store.IsEmpty() {
		log.Println("Found existing classes. Skipping demo data.")
		return
	}
	log.Println("No classes found. Adding demo data...")
	seedInitialData(store)
}

// seedInitialData adds two demo classes with a few students; errors are
// logged and do not stop the rest of the seed
func seedInitialData(store *roster.Store) {
	demo := []struct {
		class    string
		students []string
	}{
		{class: "الصف الأول (تجريبي)", students: []string{"أحمد علي", "سارة محمد"}},
		{class: "الصف الثاني (تجريبي)", students: []string{"خالد عمر"}},
	}

	for _, d := range demo {
		if err := store.AddClass(d.class); err != nil {
			log.Printf("Error adding demo class %s: %v", d.class, err)
			continue
		}
		for _, name := range d.students {
			if _, err := store.AddStudent(d.class, name); err != nil {
				log.Printf("Error adding demo student %s: %v", name, err)
			}
		}
	}

	log.Println("Demo data added.")
}

package main

import (
	"github.com/lib/pq"

	"github.com/TinArambasic/ScholarSync/internal/models"
)

const (
	programMath   = "preddiplomski-matematika"
	programMathCS = "preddiplomski-matematika-racunarstvo"
)

var (
	bothPrograms = pq.StringArray{programMath, programMathCS}
	csOnly       = pq.StringArray{programMathCS}
	mathOnly     = pq.StringArray{programMath}
)

// referenceCourses is the undergraduate catalogue loaded by the seed command.
// Ids are stable so existing questions keep pointing at the same course.
func referenceCourses() []models.Course {
	return []models.Course{
		{ID: "c1", Title: "Matematička analiza 1", Type: models.CourseMandatory, Year: 1, Programs: bothPrograms,
			Description: "Granične vrijednosti, neprekidnost, derivacija, integracija"},
		{ID: "c2", Title: "Linearna algebra 1", Type: models.CourseMandatory, Year: 1, Programs: bothPrograms,
			Description: "Vektori, matrice, determinante, sustavi linearnih jednadžbi"},
		{ID: "c3", Title: "Programiranje 1", Type: models.CourseMandatory, Year: 1, Programs: bothPrograms,
			Description: "Osnove programiranja u Pythonu i C++"},
		{ID: "c4", Title: "Računalna arhitektura", Type: models.CourseMandatory, Year: 1, Programs: csOnly,
			Description: "Osnove računalnih sustava i digitalne logike"},
		{ID: "c5", Title: "Engleski jezik za IT 1", Type: models.CourseElective, Year: 1, Programs: csOnly,
			Description: "Stručna terminologija iz područja IT-a"},

		{ID: "c6", Title: "Matematička analiza 2", Type: models.CourseMandatory, Year: 2, Programs: bothPrograms,
			Description: "Višestruki integrali, diferencijalne jednadžbe",
			ProgramYears: models.ProgramYears{programMath: 1}},
		{ID: "c7", Title: "Linearna algebra 2", Type: models.CourseMandatory, Year: 2, Programs: bothPrograms,
			Description: "Vektorski prostori, linearne transformacije",
			ProgramYears: models.ProgramYears{programMath: 1}},
		{ID: "c8", Title: "Programiranje 2", Type: models.CourseMandatory, Year: 2, Programs: csOnly,
			Description: "Objektno orijentirano programiranje i algoritmi"},
		{ID: "c9", Title: "Diferencijalna geometrija", Type: models.CourseMandatory, Year: 2, Programs: mathOnly,
			Description: "Krivulje i plohe u prostoru"},
		{ID: "c10", Title: "Diskretna matematika", Type: models.CourseMandatory, Year: 2, Programs: bothPrograms,
			Description: "Teorija skupova, relacije, kombinatorika"},
		{ID: "c11", Title: "Baze podataka", Type: models.CourseMandatory, Year: 2, Programs: bothPrograms,
			Description: "Relacijske baze, SQL, normalizacija",
			ProgramYears: models.ProgramYears{programMath: 3}},

		{ID: "c12", Title: "Numerička analiza", Type: models.CourseMandatory, Year: 3, Programs: bothPrograms,
			Description: "Numeričke metode za rješavanje matematičkih problema"},
		{ID: "c13", Title: "Vjerojatnost i statistika", Type: models.CourseMandatory, Year: 3, Programs: bothPrograms,
			Description: "Slučajne varijable, statistička analiza",
			ProgramYears: models.ProgramYears{programMath: 2}},
		{ID: "c14", Title: "Web programiranje", Type: models.CourseElective, Year: 3, Programs: csOnly,
			Description: "HTML, CSS, JavaScript, backend tehnologije"},
		{ID: "c15", Title: "Softversko inženjerstvo", Type: models.CourseMandatory, Year: 3, Programs: csOnly,
			Description: "Metodologije razvoja softvera, UML, agilni procesi"},
	}
}

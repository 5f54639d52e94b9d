package interview

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/screening/internal/domain"
)

// SampleJobs is the demo catalogue installed by SeedJobs.
var SampleJobs = []JobInput{
	{
		Title:       "Desarrollador Frontend React",
		Description: "Buscamos un desarrollador frontend con experiencia en React, TypeScript y Tailwind CSS. Trabajarás en proyectos innovadores creando interfaces de usuario modernas y responsivas.",
		Department:  "Tecnología",
		Location:    "Madrid, España (Remoto disponible)",
	},
	{
		Title:       "Diseñador UX/UI",
		Description: "Únete a nuestro equipo de diseño para crear experiencias digitales excepcionales. Experiencia en Figma, prototipado y design systems es fundamental.",
		Department:  "Diseño",
		Location:    "Barcelona, España (Híbrido)",
	},
	{
		Title:       "Especialista en Marketing Digital",
		Description: "Gestiona campañas de marketing digital, SEO/SEM, redes sociales y analytics. Experiencia en Google Ads, Facebook Ads y herramientas de análisis.",
		Department:  "Marketing",
		Location:    "Valencia, España (Presencial)",
	},
	{
		Title:       "Desarrollador Backend Node.js",
		Description: "Desarrolla APIs robustas y escalables usando Node.js, PostgreSQL y AWS. Experiencia en microservicios y arquitecturas cloud es valorada.",
		Department:  "Tecnología",
		Location:    "Sevilla, España (Remoto disponible)",
	},
	{
		Title:       "Gerente de Ventas",
		Description: "Lidera el equipo de ventas para alcanzar objetivos comerciales. Experiencia en B2B, CRM y estrategias de crecimiento empresarial.",
		Department:  "Ventas",
		Location:    "Madrid, España (Presencial)",
	},
}

// SeedJobs creates every posting in catalogue whose title is not already
// active. It returns the postings it created.
func (s *Service) SeedJobs(ctx context.Context, catalogue []JobInput) ([]domain.JobPosting, error) {
	active, err := s.ListJobs(ctx, true)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(active))
	for _, job := range active {
		existing[strings.ToLower(job.Title)] = true
	}

	created := []domain.JobPosting{}
	for _, in := range catalogue {
		key := strings.ToLower(strings.TrimSpace(in.Title))
		if existing[key] {
			s.logger.Debug("seed job already present", zap.String("title", in.Title))
			continue
		}

		job, err := s.CreateJob(ctx, in)
		if err != nil {
			return created, err
		}
		existing[key] = true
		created = append(created, *job)
	}

	s.logger.Info("job catalogue seeded",
		zap.Int("created", len(created)),
		zap.Int("skipped", len(catalogue)-len(created)))
	return created, nil
}

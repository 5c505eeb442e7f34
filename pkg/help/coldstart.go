package help

const ColdstartYAML = `# jobcorpus Quick Start

pipeline:
  - "split:     ketquafinal.json -> ketquafinal-1.json, ketquafinal-2.json, ..."
  - "clean:     descriptionRaw HTML -> description text (optional)"
  - "summarize: long *Sum fields and description -> bounded summaries"
  - "transform: crawled records -> name/website/jobs target schema"
  - "stats:     coverage, languages and keywords at any stage"

commands:
  split: |
    jobcorpus split --input ketquafinal.json --size 66
    jobcorpus split --input ketquafinal.json --outputs a.json,b.json,c.json

  clean: |
    jobcorpus clean --input ketquafinal.json --output cleaned_companies.json

  summarize: |
    jobcorpus summarize
    jobcorpus summarize --input cleaned_companies.json --output summarized_companies.json --max-length 200
    jobcorpus summarize --derive description=descriptionSum --derive requirements=requirementsSum

  transform: |
    jobcorpus transform
    jobcorpus transform --default-source topcv --normalize-dates

  stats: |
    jobcorpus stats --input summarized_companies.json
    jobcorpus stats --input transformed_companies.json --format json --top 50

  ledger: |
    jobcorpus db runs
    jobcorpus db run        # latest run
    jobcorpus db run 12

config_file: |
  # jobcorpus.yaml (all keys optional, flags win)
  summarize:
    max_length: 200
    threshold: 50
    suffix: Sum
    derived:
      - source: description
        target: descriptionSum
  split:
    size: 66
    pattern: ketquafinal-{n}.json
    start: 1
  transform:
    batch_size: 10
    default_source: ""
    normalize_dates: false

resume:
  - "summarize, transform and clean write <output>_temp.json after every batch"
  - "Ctrl-C stops after the current batch; run the same command again to resume"
  - "A corrupt or oversized checkpoint is ignored and processing restarts at 0"
  - "The checkpoint is removed once the final output is written"

env_vars:
  - "JOBCORPUS_CONFIG, JOBCORPUS_DB, JOBCORPUS_NO_LEDGER"
  - "JOBCORPUS_INPUT, JOBCORPUS_OUTPUT per command"

error_behavior:
  - "Missing or malformed input: nothing is written"
  - "Failed checkpoint save: warning, processing continues"
  - "Failed final write: checkpoint kept for the next run"
  - "Exit codes: 0=success, 1=failure, 2=bad input or setup"
`
